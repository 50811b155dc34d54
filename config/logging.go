package config

import (
	"fmt"

	"go.uber.org/zap"
)

// setLogger picks the zap preset matching the running environment
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	case "local":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	default:
		return nil, fmt.Errorf("unknown environment %q", env)
	}
}
