package factory

import (
	"strings"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"authorstore/internal/core/domain"
)

const DefaultPassword = "12345678"

// AuthorAttributes are the fabricated inputs an Author is built from.
type AuthorAttributes struct {
	AvatarURL string
	Email     string
	Password  string
	Username  string
}

// NewAuthor fabricates a valid Author with a bcrypt hash of Password
// (DefaultPassword unless overridden). Random values that would not fit a
// column are replaced by unique defaults.
func NewAuthor(customData ...map[string]any) *domain.Author {
	hasPassword := false

	for _, data := range customData {
		if _, exists := data["Password"]; exists {
			hasPassword = true
			break
		}
	}

	if !hasPassword {
		customData = append(customData, map[string]any{
			"Password": DefaultPassword,
		})
	}

	attrs := fab.New(AuthorAttributes{}).Build(customData...)

	hash, err := bcrypt.GenerateFromPassword([]byte(attrs.Password), bcrypt.MinCost)

	if err != nil {
		panic(err)
	}

	id := uuid.New()
	suffix := strings.ReplaceAll(id.String(), "-", "")[:12]

	author, err := domain.NewAuthor(
		id,
		nil,
		fit(attrs.AvatarURL, domain.AvatarURLMaxLen, "https://example.com/"+suffix+".png"),
		fit(attrs.Email, domain.EmailMaxLen, suffix+"@example.com"),
		string(hash),
		fit(attrs.Username, domain.UsernameMaxLen, "author_"+suffix),
	)

	if err != nil {
		panic(err)
	}

	return author
}

func fit(value string, max int, fallback string) string {
	value = domain.Sanitize(value)

	if value == "" || len(value) > max {
		return fallback
	}

	return value
}
