package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DB exposes the pool through database/sql so the shared repository can run
// on it unchanged.
type DB struct {
	*sql.DB
	Pool         *pgxpool.Pool
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	URL            string
	MigrationsPath string
}

func NewDB(ctx context.Context, opts Options) (*DB, error) {
	if opts.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	if opts.MigrationsPath == "" {
		opts.MigrationsPath = "db/migrations/postgres"
	}

	pool, err := pgxpool.New(ctx, opts.URL)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	db := &DB{
		DB:           stdlib.OpenDBFromPool(pool),
		Pool:         pool,
		QueryBuilder: &psql,
	}

	if err := RunMigrations(db.DB, opts.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	err := db.DB.Close()
	db.Pool.Close()

	return err
}

func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})

	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}
