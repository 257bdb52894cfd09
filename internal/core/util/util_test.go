package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorstore/internal/core/domain"
)

func TestGenerateActivationToken(t *testing.T) {
	t.Run("should fit the activation token column", func(t *testing.T) {
		token, err := GenerateActivationToken()

		require.NoError(t, err)
		assert.Len(t, token, 32)
	})

	t.Run("should not repeat", func(t *testing.T) {
		first, _ := GenerateActivationToken()
		second, _ := GenerateActivationToken()

		assert.NotEqual(t, first, second)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)

	assert.LessOrEqual(t, len(hash), domain.PasswordHashMaxLen)
	assert.True(t, CheckPassword(hash, "12345678"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = HashPassword(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}
