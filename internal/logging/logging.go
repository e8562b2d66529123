// Package logging builds the process-wide zap logger from config.
package logging

import (
	"tableview/internal/config"

	"go.uber.org/zap"
)

func New(cfg config.Config, service string) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc.Level = level
	if cfg.LogFormat == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", service)), nil
}

// Must falls back to a production logger when the configured one cannot be built.
func Must(cfg config.Config, service string) *zap.Logger {
	logger, err := New(cfg, service)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Warn("invalid logging config, using defaults", zap.Error(err))
		return fallback.With(zap.String("service", service))
	}
	return logger
}
