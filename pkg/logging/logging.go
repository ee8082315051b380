package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide logger. Local runs get the human-readable
// development encoder; everything else logs production JSON. Components
// never construct loggers themselves, they receive this one (usually
// Named) through their constructors.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
