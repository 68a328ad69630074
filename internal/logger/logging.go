// Package logger builds prefixed charmbracelet/log loggers for the packages that
// need their own. Output goes to stderr: stdout belongs to the IPC protocol and the CLI.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger on stderr that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
