package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	for _, production := range []bool{false, true} {
		logger, err := NewLogger("authorstore", production)

		require.NoError(t, err)
		require.NotNil(t, logger)

		logger.Ctx(context.Background()).Info("logger ready", zap.Bool("production", production))
	}
}

func TestNewLogger_Levels(t *testing.T) {
	dev, err := NewLogger("authorstore", false)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))

	prod, err := NewLogger("authorstore", true)
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zap.DebugLevel))
}

func TestNewSlog(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewSlog(false).Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewSlog(true).Enabled(ctx, slog.LevelDebug))
}
