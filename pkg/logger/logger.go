// Package logger builds the structured loggers used throughout Ignite.
// Every subsystem is handed a *zap.SugaredLogger scoped to its own name so
// that log lines can be filtered by component without grepping messages.
package logger

import (
	"go.uber.org/zap"
)

// New returns a production-configured, JSON-encoded logger named after the
// given service. Callers that need a differently-configured logger (tests,
// CLIs that want console output) should use NewDevelopment instead.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken encoder/sink config,
		// which never happens with the default config it builds internally.
		base = zap.NewNop()
	}
	return base.Named(service).Sugar()
}

// NewDevelopment returns a human-readable, colorized-in-terminal logger.
// cmd/ignite switches to it when --dev is set, so local runs are easy to
// read without piping through a JSON formatter.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Named(service).Sugar()
}

// Named returns a child logger scoped to the given subsystem, preserving the
// structured fields already attached to parent.
func Named(parent *zap.SugaredLogger, name string) *zap.SugaredLogger {
	return parent.Named(name)
}
