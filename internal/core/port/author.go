package port

import (
	"context"

	"authorstore/internal/core/domain"
)

type AuthorRepository interface {
	Insert(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, author *domain.Author) error
	// FindByID reports found=false with a nil error when no row matches.
	FindByID(ctx context.Context, id any) (author *domain.Author, found bool, err error)
	FindAll(ctx context.Context) ([]*domain.Author, error)
	// FindPage orders by id and resumes after the author encoded in the cursor.
	FindPage(ctx context.Context, cursor string, limit int) (authors []*domain.Author, hasNext bool, err error)
}

type RegisterAuthor struct {
	AvatarURL      string
	Email          string
	Password       string
	Username       string
	NeedActivation bool
}

type AuthorPage struct {
	Authors    []*domain.Author `json:"data"`
	Size       int              `json:"size"`
	HasNext    bool             `json:"has_next"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type AuthorService interface {
	Register(ctx context.Context, req RegisterAuthor) (*domain.Author, error)
	Get(ctx context.Context, id any) (*domain.Author, bool, error)
	List(ctx context.Context) ([]*domain.Author, error)
	ListPage(ctx context.Context, cursor string, limit int) (*AuthorPage, error)
	Update(ctx context.Context, author *domain.Author) error
	Remove(ctx context.Context, id any) error
	Activate(ctx context.Context, id any, token string) error
}
