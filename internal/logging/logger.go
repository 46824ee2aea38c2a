// Package logging builds the structured logger shared by the server
// and CLI entrypoints. Unlike some loggers in the wild, it never
// stashes the result in a package-level global: callers hold the
// *zap.Logger and pass it down to whatever needs it.
package logging

import (
	"go.uber.org/zap"
)

// New builds a production or development zap.Logger depending on
// debug, matching the two presets wikiracer's ancestor tooling used.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
