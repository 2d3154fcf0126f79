package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger carries diagnostics only. Per-target failures are part of the
// program output and are written by the Printer.
var logger = newLogger(os.Stderr, false)

// newLogger returns a logger writing to w at warn level, or debug level when
// verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "grepr",
		Level:  level,
	})
}
