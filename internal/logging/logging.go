// Package logging builds the server's structured logrus.Logger. Every
// component that logs (the completion engine's catalog degradation, the
// LSP server's failed requests) takes a *logrus.Logger rather than
// constructing its own, so the
// whole process shares one sink and one field convention. Logs always go
// to stderr: stdout carries the LSP's own JSON-RPC stream over stdio, and
// writing anything else to it would corrupt that protocol.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger writing JSON-formatted records to stderr at
// level (one of "debug", "info", "warn", "error"; an unrecognized or empty
// level falls back to "info", matching Config.LogLevel's documented
// default).
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(parseLevel(level))

	return logger
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}

	return parsed
}

// ForDocument returns a child logger pre-populated with the fields every
// per-document log line carries: the document's URI and SQL dialect.
func ForDocument(base *logrus.Logger, uri, dialect string) *logrus.Entry {
	return base.WithFields(logrus.Fields{
		"component": "document",
		"uri":       uri,
		"dialect":   dialect,
	})
}

// ForComponent returns a child logger tagged with component. lspserver
// tags its entries this way; completion.Engine logs through its Logger
// field without a component tag.
func ForComponent(base *logrus.Logger, component string) *logrus.Entry {
	return base.WithField("component", component)
}
