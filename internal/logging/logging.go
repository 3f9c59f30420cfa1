// Package logging configures the process-wide diagnostic logger.
//
// Diagnostics go to stderr so command output on stdout stays parseable.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

// SetVerbose lowers the level to debug.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Warnf logs a warning. Warnings are advisory and never abort an operation.
func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
