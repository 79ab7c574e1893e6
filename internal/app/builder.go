package app

import (
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Log settings come from CLI flags
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, log ports.Logger) *Components {
	return &Components{
		App:    app,
		Logger: log,
	}
}

// ConfigureLogging switches the logger to JSON output and debug verbosity as requested.
// Loggers that do not support these settings are left unchanged.
func (c *Components) ConfigureLogging(json, verbose bool) {
	l, ok := c.Logger.(*logger.Logger)
	if !ok {
		return
	}
	l.SetJSON(json)
	if verbose {
		l.SetLevel(domain.LogLevelDebug)
	}
}
