package util

import (
	"crypto/rand"
	"encoding/base64"
)

// ActivationTokenBytes encodes to exactly 32 characters.
const ActivationTokenBytes = 24

// GenerateActivationToken creates a cryptographically secure random token.
func GenerateActivationToken() (string, error) {
	b := make([]byte, ActivationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
