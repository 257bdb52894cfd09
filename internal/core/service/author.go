package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"authorstore/internal/core/domain"
	"authorstore/internal/core/port"
	tel "authorstore/internal/core/telemetry"
	"authorstore/internal/core/util"
	"authorstore/pkg/db/cursor"
)

const serviceName = "author"

type AuthorService struct {
	repo      port.AuthorRepository
	cache     port.CacheRepository
	cacheTTL  time.Duration
	telemetry port.Telemetry
}

var _ port.AuthorService = (*AuthorService)(nil)

// NewAuthorService wires the repository with an optional read-through cache.
// A nil cache disables caching.
func NewAuthorService(repo port.AuthorRepository, cache port.CacheRepository, cacheTTL time.Duration, telemetry port.Telemetry) *AuthorService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &AuthorService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		telemetry: telemetry,
	}
}

// cachedAuthor is the cache payload. It carries the hash, unlike the
// serialized form, and never leaves the process boundary of the cache.
type cachedAuthor struct {
	ID              string  `json:"id"`
	ActivationToken *string `json:"activation_token"`
	AvatarURL       string  `json:"avatar_url"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"password_hash"`
	Username        string  `json:"username"`
}

func (as *AuthorService) Register(ctx context.Context, req port.RegisterAuthor) (author *domain.Author, err error) {
	ctx, done := as.track(ctx, "register")
	defer func() { done(err) }()

	hash, err := util.HashPassword(req.Password)

	if err != nil {
		return nil, err
	}

	var token *string

	if req.NeedActivation {
		generated, err := util.GenerateActivationToken()

		if err != nil {
			return nil, err
		}

		token = &generated
	}

	author, err = domain.NewAuthor(uuid.New(), token, req.AvatarURL, req.Email, hash, req.Username)

	if err != nil {
		return nil, err
	}

	if err := as.repo.Insert(ctx, author); err != nil {
		return nil, err
	}

	as.telemetry.RecordBusinessEvent(ctx, "registered", serviceName, author.ID().String(), map[string]any{
		"activation_pending": token != nil,
	})

	return author, nil
}

// Get looks in the cache before the repository. found is false with a nil
// error when no author has the id.
func (as *AuthorService) Get(ctx context.Context, id any) (author *domain.Author, found bool, err error) {
	uid, err := domain.NormalizeUUID(id)

	if err != nil {
		return nil, false, err
	}

	ctx, done := as.track(ctx, "get")
	defer func() { done(err) }()

	if author, ok := as.fromCache(ctx, uid); ok {
		return author, true, nil
	}

	author, found, err = as.repo.FindByID(ctx, uid)

	if err != nil || !found {
		return nil, false, err
	}

	as.toCache(ctx, author)

	return author, true, nil
}

func (as *AuthorService) List(ctx context.Context) (authors []*domain.Author, err error) {
	ctx, done := as.track(ctx, "list")
	defer func() { done(err) }()

	return as.repo.FindAll(ctx)
}

func (as *AuthorService) ListPage(ctx context.Context, after string, limit int) (page *port.AuthorPage, err error) {
	ctx, done := as.track(ctx, "list_page")
	defer func() { done(err) }()

	authors, hasNext, err := as.repo.FindPage(ctx, after, limit)

	if err != nil {
		return nil, err
	}

	page = &port.AuthorPage{
		Authors: authors,
		Size:    len(authors),
		HasNext: hasNext,
	}

	if hasNext && len(authors) > 0 {
		page.NextCursor = cursor.EncodeCursor(authors[len(authors)-1].ID().String())
	}

	return page, nil
}

func (as *AuthorService) Update(ctx context.Context, author *domain.Author) (err error) {
	ctx, done := as.track(ctx, "update")
	defer func() { done(err) }()

	if err := as.repo.Update(ctx, author); err != nil {
		return err
	}

	as.evict(ctx, author.ID())

	return nil
}

func (as *AuthorService) Remove(ctx context.Context, id any) (err error) {
	ctx, done := as.track(ctx, "remove")
	defer func() { done(err) }()

	author, err := as.mustFind(ctx, id)

	if err != nil {
		return err
	}

	if err := as.repo.Delete(ctx, author); err != nil {
		return err
	}

	as.evict(ctx, author.ID())
	as.telemetry.RecordBusinessEvent(ctx, "removed", serviceName, author.ID().String(), nil)

	return nil
}

// Activate clears the pending activation token when token matches it.
func (as *AuthorService) Activate(ctx context.Context, id any, token string) (err error) {
	ctx, done := as.track(ctx, "activate")
	defer func() { done(err) }()

	author, err := as.mustFind(ctx, id)

	if err != nil {
		return err
	}

	pending := author.ActivationToken()

	if pending == nil {
		return &domain.FieldError{Field: "activation token", Kind: domain.ErrInvalidInput, Message: "author is already active"}
	}

	if subtle.ConstantTimeCompare([]byte(*pending), []byte(domain.Sanitize(token))) != 1 {
		return &domain.FieldError{Field: "activation token", Kind: domain.ErrInvalidInput, Message: "activation token does not match"}
	}

	if err := author.SetActivationToken(nil); err != nil {
		return err
	}

	if err := as.repo.Update(ctx, author); err != nil {
		return err
	}

	as.evict(ctx, author.ID())
	as.telemetry.RecordBusinessEvent(ctx, "activated", serviceName, author.ID().String(), nil)

	return nil
}

func (as *AuthorService) mustFind(ctx context.Context, id any) (*domain.Author, error) {
	author, found, err := as.repo.FindByID(ctx, id)

	if err != nil {
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, id)
	}

	return author, nil
}

func cacheKey(id uuid.UUID) string {
	return "author:" + id.String()
}

func (as *AuthorService) fromCache(ctx context.Context, id uuid.UUID) (*domain.Author, bool) {
	if as.cache == nil {
		return nil, false
	}

	raw, err := as.cache.Get(ctx, cacheKey(id))
	hit := err == nil

	as.telemetry.RecordCacheLookup(ctx, serviceName, hit)

	if !hit {
		if !errors.Is(err, port.ErrCacheMiss) {
			as.telemetry.RecordError(ctx, "cache_get", err, map[string]any{"author_id": id.String()})
		}
		return nil, false
	}

	var entry cachedAuthor

	if err := json.Unmarshal(raw, &entry); err != nil {
		as.telemetry.RecordError(ctx, "cache_decode", err, map[string]any{"author_id": id.String()})
		as.evict(ctx, id)
		return nil, false
	}

	author, err := domain.NewAuthor(entry.ID, entry.ActivationToken, entry.AvatarURL, entry.Email, entry.PasswordHash, entry.Username)

	if err != nil {
		as.telemetry.RecordError(ctx, "cache_decode", err, map[string]any{"author_id": id.String()})
		as.evict(ctx, id)
		return nil, false
	}

	return author, true
}

func (as *AuthorService) toCache(ctx context.Context, author *domain.Author) {
	if as.cache == nil {
		return
	}

	raw, err := json.Marshal(cachedAuthor{
		ID:              author.ID().String(),
		ActivationToken: author.ActivationToken(),
		AvatarURL:       author.AvatarURL(),
		Email:           author.Email(),
		PasswordHash:    author.PasswordHash(),
		Username:        author.Username(),
	})

	if err != nil {
		as.telemetry.RecordError(ctx, "cache_encode", err, nil)
		return
	}

	if err := as.cache.Set(ctx, cacheKey(author.ID()), raw, as.cacheTTL); err != nil {
		as.telemetry.RecordError(ctx, "cache_set", err, map[string]any{"author_id": author.ID().String()})
	}
}

func (as *AuthorService) evict(ctx context.Context, id uuid.UUID) {
	if as.cache == nil {
		return
	}

	if err := as.cache.Delete(ctx, cacheKey(id)); err != nil {
		as.telemetry.RecordError(ctx, "cache_delete", err, map[string]any{"author_id": id.String()})
	}
}

func (as *AuthorService) track(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, serviceName, operation, []attribute.KeyValue{})
	start := time.Now()

	return ctx, func(err error) {
		as.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)
		span.End()
	}
}
