package logger

import (
	"anime-sync/core/middleware/requestid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// WithPass returns a logger with the pass_id field set so that all entries
// produced by one sync pass can be correlated.
func WithPass(l *zap.Logger, passID string) *zap.Logger {
	if passID == "" {
		return l
	}
	return l.With(zap.String("pass_id", passID))
}

// WithRequest returns a logger with the request_id field set from the
// request context, so all entries produced by one request can be correlated.
func WithRequest(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id := requestid.FromCtx(c); id != "" {
		return l.With(zap.String("request_id", id))
	}
	return l
}
