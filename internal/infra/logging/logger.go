// Package logging builds the zap logger shared by both front-ends.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at debug level for development and a JSON
// logger at info level for every other environment.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "development") {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Must is New for main packages.
func Must(env string) *zap.Logger {
	logger, err := New(env)
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
