// Package diag provides the two diagnostic streams used throughout gmxtop:
// progress/warning output and error output. Both are backed by logrus so
// that callers embedding the parser in a larger program can redirect or
// filter either stream independently, without touching any package
// internals.
package diag

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Diag carries progress and warning messages (section loads, #define/#ifdef
// state changes, dropped-for-capacity notices). It defaults to stdout.
var Diag = newLogger(os.Stdout)

// Err carries fatal and near-fatal diagnostics. It defaults to stderr.
var Err = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.DebugLevel)
	return l
}

// SetDiagWriter redirects the progress/warning stream.
func SetDiagWriter(w io.Writer) { Diag.SetOutput(w) }

// SetErrWriter redirects the error stream.
func SetErrWriter(w io.Writer) { Err.SetOutput(w) }

// For returns a logger entry tagged with the given component name, the
// structured equivalent of the original plugin's "grotopplugin) " prefix.
func For(component string) *logrus.Entry {
	return Diag.WithField("component", component)
}

// ForErr returns an error-stream entry tagged with the given component name.
func ForErr(component string) *logrus.Entry {
	return Err.WithField("component", component)
}
