package observability

import (
	"fmt"

	"github.com/railzwaylabs/subview/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the root logger. Development mode gets the console
// encoder; everything else logs JSON.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.App.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}

	if lvl := cfg.Observability.LogLevel; lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", lvl, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(
		zap.String("service", cfg.Observability.ServiceName),
		zap.String("version", cfg.App.Version),
	), nil
}
