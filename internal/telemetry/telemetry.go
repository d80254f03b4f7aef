// Package telemetry configures the process-wide structured logger,
// following the teacher's own logrus setup in cmd/inmapweb/main.go:
// a standard logrus.Logger with a text formatter, full timestamps, and a
// configurable level, used via field-tagged entries (for example job,
// row, fuel_type, iterations) rather than bare fmt output.
package telemetry

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured for firesim's CLI: text
// formatting with full timestamps (matching the teacher's
// logrus.TextFormatter setup), at the given level. An unparsable level
// string falls back to logrus.InfoLevel rather than failing startup —
// a misconfigured log level is not a fatal configuration error per
// spec.md §7's error taxonomy.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
