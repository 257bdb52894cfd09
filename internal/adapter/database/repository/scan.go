package repository

import (
	"database/sql"

	"authorstore/internal/core/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAuthor reads one row in authorColumns order and rebuilds it through
// domain.NewAuthor, so stored values are validated like any other input.
func scanAuthor(row rowScanner) (*domain.Author, error) {
	var (
		id              []byte
		activationToken sql.NullString
		avatarURL       string
		email           string
		hash            string
		username        string
	)

	if err := row.Scan(&id, &activationToken, &avatarURL, &email, &hash, &username); err != nil {
		return nil, err
	}

	var token *string
	if activationToken.Valid {
		token = &activationToken.String
	}

	return domain.NewAuthor(id, token, avatarURL, email, hash, username)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}
