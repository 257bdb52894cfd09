package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"authorstore/internal/core/domain"
	"authorstore/internal/core/port"
	tel "authorstore/internal/core/telemetry"
	"authorstore/pkg/db/cursor"
)

const (
	authorTable  = "author"
	authorEntity = "author"

	colID              = "author_id"
	colActivationToken = "author_activation_token"
	colAvatarURL       = "author_avatar_url"
	colEmail           = "author_email"
	colHash            = "author_hash"
	colUsername        = "author_username"
)

var authorColumns = []string{colID, colActivationToken, colAvatarURL, colEmail, colHash, colUsername}

// AuthorRepository persists authors through a caller supplied store handle.
// It never opens, pools or closes that handle.
type AuthorRepository struct {
	store        port.Store
	queryBuilder sq.StatementBuilderType
	telemetry    port.Telemetry
}

func NewAuthorRepository(store port.Store, queryBuilder sq.StatementBuilderType, telemetry port.Telemetry) port.AuthorRepository {
	if telemetry == nil {
		// Use NoOpProbe if none provided
		telemetry = tel.NewNoOpProbe()
	}

	return &AuthorRepository{
		store:        store,
		queryBuilder: queryBuilder,
		telemetry:    telemetry,
	}
}

func (ar *AuthorRepository) Insert(ctx context.Context, author *domain.Author) (err error) {
	ctx, done := ar.track(ctx, "insert", author.ID().String())
	defer func() { done(err) }()

	stmt, args, err := ar.queryBuilder.Insert(authorTable).
		Columns(authorColumns...).
		Values(
			author.IDBytes(),
			nullString(author.ActivationToken()),
			author.AvatarURL(),
			author.Email(),
			author.PasswordHash(),
			author.Username(),
		).
		ToSql()

	if err != nil {
		return domain.NewStoreError("insert", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "insert", authorEntity, stmt, args)

	if _, err = ar.store.ExecContext(ctx, stmt, args...); err != nil {
		slog.Error("Error inserting author", "error", err)
		return domain.NewStoreError("insert", err)
	}

	return nil
}

// Update rewrites every column but the id. A missing row is a no-op.
func (ar *AuthorRepository) Update(ctx context.Context, author *domain.Author) (err error) {
	ctx, done := ar.track(ctx, "update", author.ID().String())
	defer func() { done(err) }()

	stmt, args, err := ar.queryBuilder.Update(authorTable).
		Set(colActivationToken, nullString(author.ActivationToken())).
		Set(colAvatarURL, author.AvatarURL()).
		Set(colEmail, author.Email()).
		Set(colHash, author.PasswordHash()).
		Set(colUsername, author.Username()).
		// not sq.Eq, which expands a byte slice into an IN list
		Where(colID+" = ?", author.IDBytes()).
		ToSql()

	if err != nil {
		return domain.NewStoreError("update", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "update", authorEntity, stmt, args)

	result, err := ar.store.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating author", "error", err)
		return domain.NewStoreError("update", err)
	}

	if rowsAffected, rerr := result.RowsAffected(); rerr == nil && rowsAffected == 0 {
		slog.Debug("Author update matched no row", "author_id", author.ID().String())
	}

	return nil
}

func (ar *AuthorRepository) Delete(ctx context.Context, author *domain.Author) (err error) {
	ctx, done := ar.track(ctx, "delete", author.ID().String())
	defer func() { done(err) }()

	stmt, args, err := ar.queryBuilder.Delete(authorTable).
		Where(colID+" = ?", author.IDBytes()).
		ToSql()

	if err != nil {
		return domain.NewStoreError("delete", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "delete", authorEntity, stmt, args)

	if _, err = ar.store.ExecContext(ctx, stmt, args...); err != nil {
		slog.Error("Error deleting author", "error", err)
		return domain.NewStoreError("delete", err)
	}

	return nil
}

func (ar *AuthorRepository) FindByID(ctx context.Context, id any) (author *domain.Author, found bool, err error) {
	uid, err := domain.NormalizeUUID(id)

	if err != nil {
		return nil, false, err
	}

	ctx, done := ar.track(ctx, "find_by_id", uid.String())
	defer func() { done(err) }()

	stmt, args, err := ar.queryBuilder.Select(authorColumns...).
		From(authorTable).
		Where(colID+" = ?", uid[:]).
		ToSql()

	if err != nil {
		return nil, false, domain.NewStoreError("find", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "find_by_id", authorEntity, stmt, args)

	author, err = scanAuthor(ar.store.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		slog.Error("Error getting author by id", "error", err)
		return nil, false, domain.NewStoreError("find", err)
	}

	return author, true, nil
}

// FindAll returns authors in the order the store yields them.
func (ar *AuthorRepository) FindAll(ctx context.Context) (authors []*domain.Author, err error) {
	ctx, done := ar.track(ctx, "find_all", "")
	defer func() { done(err) }()

	stmt, args, err := ar.queryBuilder.Select(authorColumns...).
		From(authorTable).
		ToSql()

	if err != nil {
		return nil, domain.NewStoreError("find all", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "find_all", authorEntity, stmt, args)

	rows, err := ar.store.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error listing authors", "error", err)
		return nil, domain.NewStoreError("find all", err)
	}

	return collect(rows, "find all")
}

// FindPage returns up to limit authors ordered by id, starting after the
// author the cursor points at. hasNext reports whether another page follows.
func (ar *AuthorRepository) FindPage(ctx context.Context, after string, limit int) (authors []*domain.Author, hasNext bool, err error) {
	ctx, done := ar.track(ctx, "find_page", "")
	defer func() { done(err) }()

	if limit <= 0 {
		return nil, false, &domain.FieldError{Field: "limit", Kind: domain.ErrInvalidInput, Message: "limit must be positive"}
	}

	actualLimit := limit + 1

	query := ar.queryBuilder.Select(authorColumns...).
		From(authorTable).
		OrderBy(colID).
		Limit(uint64(actualLimit))

	if after != "" {
		id, err := cursor.DecodeCursor(after)

		if err != nil {
			slog.Error("Error decoding cursor", "error", err)
			return nil, false, &domain.FieldError{Field: "cursor", Kind: domain.ErrInvalidInput, Message: err.Error()}
		}

		uid, err := domain.NormalizeUUID(id)

		if err != nil {
			return nil, false, err
		}

		query = query.Where(colID+" > ?", uid[:])
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, false, domain.NewStoreError("find page", err)
	}

	ar.telemetry.RecordRepositoryQuery(ctx, "find_page", authorEntity, stmt, args)

	rows, err := ar.store.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error paging authors", "error", err)
		return nil, false, domain.NewStoreError("find page", err)
	}

	authors, err = collect(rows, "find page")

	if err != nil {
		return nil, false, err
	}

	hasNext = len(authors) == actualLimit

	if hasNext {
		authors = authors[:limit]
	}

	return authors, hasNext, nil
}

// collect rebuilds every row and closes rows. One row that does not rebuild
// into a valid Author fails the whole call.
func collect(rows *sql.Rows, op string) ([]*domain.Author, error) {
	defer rows.Close()

	authors := []*domain.Author{}

	for rows.Next() {
		author, err := scanAuthor(rows)

		if err != nil {
			slog.Error("Error rebuilding author row", "error", err)
			return nil, domain.NewStoreError(op, err)
		}

		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(op, err)
	}

	return authors, nil
}

// track opens a repository span and returns the func that closes it.
func (ar *AuthorRepository) track(ctx context.Context, operation, id string) (context.Context, func(error)) {
	var attrs []attribute.KeyValue
	if id != "" {
		attrs = append(attrs, attribute.String("author.id", id))
	}

	ctx, span := ar.telemetry.StartRepositorySpan(ctx, operation, authorEntity, attrs)
	start := time.Now()

	return ctx, func(err error) {
		ar.telemetry.RecordRepositoryOperation(ctx, operation, authorEntity, time.Since(start), err)
		span.End()
	}
}
