package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"authorstore/internal/core/domain"
)

// PasswordCost is the bcrypt cost new hashes are generated with.
var PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored as an author's password hash.
// Empty passwords are invalid input, and passwords bcrypt cannot take are out
// of range.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", &domain.FieldError{Field: "password", Kind: domain.ErrInvalidInput, Message: "password is empty"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &domain.FieldError{Field: "password", Kind: domain.ErrOutOfRange, Message: err.Error()}
	}

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
