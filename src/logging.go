package fake

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Diagnostics always go to stderr.  Stdout is usually carrying sample data.
var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "fake",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.InfoLevel,
	})
}

// SetLogOutput redirects diagnostics, mostly for tests.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}
