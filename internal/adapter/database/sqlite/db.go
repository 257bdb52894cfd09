package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	Path           string
	MigrationsPath string
	LogQueries     bool
}

// NewDB migrates the database file and opens a traced handle on it.
func NewDB(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = "authors.db"
	}

	if opts.MigrationsPath == "" {
		opts.MigrationsPath = "db/migrations/sqlite"
	}

	migrationDB, err := sql.Open("sqlite3", opts.Path)

	if err != nil {
		return nil, err
	}

	err = RunMigrations(migrationDB, opts.MigrationsPath)
	migrationDB.Close()

	if err != nil {
		return nil, err
	}

	sqlDB, err := otelsql.Open("sqlite3", opts.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("authorstore"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if opts.LogQueries {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

		slog.Debug("Logging sqlite queries", "path", opts.Path)
		sqlDB = sqldblogger.OpenDriver(opts.Path, sqlDB.Driver(), zerologadapter.New(logger))
		sqlDB.SetMaxOpenConns(1)
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}, nil
}

func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"sqlite3",
		driver,
	)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
