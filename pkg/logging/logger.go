package logging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger wrapped with otelzap so entries logged
// through Ctx(ctx) carry the active trace and span ids.
func NewLogger(serviceName string, production bool) (*otelzap.Logger, error) {
	config := zap.NewDevelopmentConfig()

	if production {
		config = zap.NewProductionConfig()
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.OutputPaths = []string{"stderr"}
	config.InitialFields = map[string]any{"service": serviceName}

	zapLogger, err := config.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return otelzap.New(zapLogger, otelzap.WithMinLevel(config.Level.Level())), nil
}

// NewSlog returns the structured logger handed to repositories and probes,
// writing JSON to stderr so stdout stays free for command output.
func NewSlog(production bool) *slog.Logger {
	level := slog.LevelDebug

	if production {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
