package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHash = "$argon2id$v=19$m=65536,t=3,p=1$c29tZXNhbHQ$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"

func strPtr(s string) *string {
	return &s
}

func newTestAuthor(t *testing.T) *Author {
	t.Helper()

	author, err := NewAuthor(
		"9f4b2c1e-7d3a-4e8b-a1f0-2c6d8e9b0a13",
		strPtr("abc123"),
		"https://example.com/avatar.png",
		"author@example.com",
		validHash,
		"wyatt",
	)

	require.NoError(t, err)
	return author
}

func TestNewAuthor(t *testing.T) {
	t.Run("should store sanitized values", func(t *testing.T) {
		author, err := NewAuthor(
			uuid.MustParse("9f4b2c1e-7d3a-4e8b-a1f0-2c6d8e9b0a13"),
			strPtr("  token  "),
			" https://example.com/a.png ",
			"  author@example.com",
			validHash,
			"<b>wyatt</b>",
		)

		require.NoError(t, err)
		assert.Equal(t, "9f4b2c1e-7d3a-4e8b-a1f0-2c6d8e9b0a13", author.ID().String())
		assert.Equal(t, "token", *author.ActivationToken())
		assert.Equal(t, "https://example.com/a.png", author.AvatarURL())
		assert.Equal(t, "author@example.com", author.Email())
		assert.Equal(t, validHash, author.PasswordHash())
		assert.Equal(t, "wyatt", author.Username())
	})

	t.Run("should accept an absent activation token", func(t *testing.T) {
		author, err := NewAuthor(uuid.New(), nil, "https://example.com/a.png", "a@example.com", validHash, "wyatt")

		require.NoError(t, err)
		assert.Nil(t, author.ActivationToken())
	})

	t.Run("should fail with invalid input on a malformed id", func(t *testing.T) {
		author, err := NewAuthor("0123456789", nil, "https://example.com/a.png", "a@example.com", validHash, "wyatt")

		assert.Nil(t, author)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("should report the first failing field", func(t *testing.T) {
		_, err := NewAuthor(uuid.New(), strPtr(strings.Repeat("a", 33)), "", "", "", "")

		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "activation token", fieldErr.Field)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("should keep the error kind of later fields", func(t *testing.T) {
		_, err := NewAuthor(uuid.New(), nil, "https://example.com/a.png", "a@example.com", validHash, "   ")

		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "username", fieldErr.Field)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.NotErrorIs(t, err, ErrOutOfRange)
	})
}

func TestAuthor_ActivationTokenLength(t *testing.T) {
	t.Run("should reject 33 characters", func(t *testing.T) {
		_, err := NewAuthor(uuid.New(), strPtr(strings.Repeat("a", 33)), "https://example.com/a.png", "a@example.com", validHash, "wyatt")

		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("should accept 32 characters verbatim", func(t *testing.T) {
		token := strings.Repeat("a", 32)
		author, err := NewAuthor(uuid.New(), strPtr(" "+token+" "), "https://example.com/a.png", "a@example.com", validHash, "wyatt")

		require.NoError(t, err)
		assert.Equal(t, token, *author.ActivationToken())
	})

	t.Run("should reject a provided token that is empty", func(t *testing.T) {
		_, err := NewAuthor(uuid.New(), strPtr(""), "https://example.com/a.png", "a@example.com", validHash, "wyatt")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAuthor_StringFieldBounds(t *testing.T) {
	fields := []struct {
		name   string
		max    int
		setter func(a *Author, v string) error
		getter func(a *Author) string
	}{
		{"activation token", ActivationTokenMaxLen, func(a *Author, v string) error { return a.SetActivationToken(&v) }, func(a *Author) string { return *a.ActivationToken() }},
		{"avatar url", AvatarURLMaxLen, (*Author).SetAvatarURL, (*Author).AvatarURL},
		{"email", EmailMaxLen, (*Author).SetEmail, (*Author).Email},
		{"password hash", PasswordHashMaxLen, (*Author).SetPasswordHash, (*Author).PasswordHash},
		{"username", UsernameMaxLen, (*Author).SetUsername, (*Author).Username},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			t.Run("should reject one byte over the limit", func(t *testing.T) {
				author := newTestAuthor(t)
				before := f.getter(author)

				err := f.setter(author, strings.Repeat("x", f.max+1))

				assert.ErrorIs(t, err, ErrOutOfRange)
				assert.Equal(t, before, f.getter(author))
			})

			t.Run("should accept exactly the limit", func(t *testing.T) {
				author := newTestAuthor(t)

				require.NoError(t, f.setter(author, strings.Repeat("x", f.max)))
				assert.Equal(t, strings.Repeat("x", f.max), f.getter(author))
			})

			t.Run("should accept one byte under the limit", func(t *testing.T) {
				author := newTestAuthor(t)

				assert.NoError(t, f.setter(author, strings.Repeat("x", f.max-1)))
			})

			t.Run("should count bytes rather than characters", func(t *testing.T) {
				author := newTestAuthor(t)

				// each é is two bytes
				err := f.setter(author, strings.Repeat("é", f.max/2+1))

				assert.ErrorIs(t, err, ErrOutOfRange)
			})

			t.Run("should reject an empty value", func(t *testing.T) {
				author := newTestAuthor(t)

				assert.ErrorIs(t, f.setter(author, ""), ErrInvalidInput)
			})

			t.Run("should reject a value that sanitizes to empty", func(t *testing.T) {
				author := newTestAuthor(t)

				assert.ErrorIs(t, f.setter(author, " \x00\x07 <br/> "), ErrInvalidInput)
			})

			t.Run("should measure length after sanitizing", func(t *testing.T) {
				author := newTestAuthor(t)
				padded := "  " + strings.Repeat("x", f.max) + "\x01\t\n"

				assert.NoError(t, f.setter(author, padded))
				assert.Equal(t, strings.Repeat("x", f.max), f.getter(author))
			})
		})
	}
}

func TestAuthor_SetID(t *testing.T) {
	t.Run("should leave the id unchanged on failure", func(t *testing.T) {
		author := newTestAuthor(t)
		before := author.ID()

		err := author.SetID(42)

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, before, author.ID())
	})

	t.Run("should expose the 16 byte form", func(t *testing.T) {
		author := newTestAuthor(t)
		id := author.ID()

		assert.Equal(t, id[:], author.IDBytes())
		assert.Len(t, author.IDBytes(), 16)
	})
}

func TestAuthor_Serialize(t *testing.T) {
	t.Run("should render the id as canonical text", func(t *testing.T) {
		id := uuid.New()
		author, err := NewAuthor(id.String(), nil, "https://example.com/a.png", "a@example.com", validHash, "wyatt")
		require.NoError(t, err)

		fields := author.Serialize()

		assert.Equal(t, id.String(), fields["authorId"])
		assert.Len(t, fields["authorId"], 36)
	})

	t.Run("should exclude the password hash by default", func(t *testing.T) {
		fields := newTestAuthor(t).Serialize()

		assert.NotContains(t, fields, "authorHash")
		assert.Equal(t, "abc123", fields["authorActivationToken"])
		assert.Equal(t, "wyatt", fields["authorUsername"])
	})

	t.Run("should include the password hash on request", func(t *testing.T) {
		fields := newTestAuthor(t).Serialize(WithPasswordHash())

		assert.Equal(t, validHash, fields["authorHash"])
	})

	t.Run("should render an absent token as null in json", func(t *testing.T) {
		author, err := NewAuthor(uuid.New(), nil, "https://example.com/a.png", "a@example.com", validHash, "wyatt")
		require.NoError(t, err)

		raw, err := json.Marshal(author)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Contains(t, decoded, "authorActivationToken")
		assert.Nil(t, decoded["authorActivationToken"])
		assert.NotContains(t, decoded, "authorHash")
	})
}

func TestStoreError(t *testing.T) {
	t.Run("should match both the store kind and its cause", func(t *testing.T) {
		cause := &FieldError{Field: "email", Kind: ErrOutOfRange, Message: "too long"}
		err := NewStoreError("find", cause)

		assert.ErrorIs(t, err, ErrStore)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.True(t, errors.Is(err, cause))
	})
}
