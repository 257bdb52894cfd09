package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorstore/internal/core/port"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should return stored values", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)

		require.NoError(t, repo.Set(ctx, "author:1", []byte("payload"), 0))

		value, err := repo.Get(ctx, "author:1")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), value)
	})

	t.Run("should report a miss for unknown keys", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)

		_, err := repo.Get(ctx, "author:missing")

		assert.ErrorIs(t, err, port.ErrCacheMiss)
	})

	t.Run("should expire entries", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)

		require.NoError(t, repo.Set(ctx, "author:1", []byte("payload"), 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, err := repo.Get(ctx, "author:1")
		assert.ErrorIs(t, err, port.ErrCacheMiss)
	})

	t.Run("should forget deleted keys", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)

		require.NoError(t, repo.Set(ctx, "author:1", []byte("payload"), 0))
		require.NoError(t, repo.Delete(ctx, "author:1"))

		_, err := repo.Get(ctx, "author:1")
		assert.ErrorIs(t, err, port.ErrCacheMiss)
	})

	t.Run("should not share the caller's buffer", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)
		buf := []byte("payload")

		require.NoError(t, repo.Set(ctx, "author:1", buf, 0))
		buf[0] = 'X'

		value, err := repo.Get(ctx, "author:1")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), value)
	})
}
