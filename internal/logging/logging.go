// Package logging provides the structured logger shared by every layer.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Logger is the subset of charmbracelet/log used across gtd
type Logger interface {
	Debug(interface{}, ...interface{})
	Info(interface{}, ...interface{})
	Warn(interface{}, ...interface{})
	Error(interface{}, ...interface{})
	Fatal(interface{}, ...interface{})
}

// New returns a logger writing to w. An unknown level falls back to info.
func New(w io.Writer, level string) Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything
func Discard() Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
