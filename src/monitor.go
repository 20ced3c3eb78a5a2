package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Leave a trail in a small text file so someone can see
 *		when a long generation run started and finished.
 *
 * Description:	The file is opened for append and kept open.
 *		Each line is a timestamp, in a user chosen strftime
 *		format, then the message.
 *
 *		Nothing here is allowed to stop the run.  If the file
 *		can't be opened or written we complain once and carry on.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
)

type Monitor struct {
	w      io.WriteCloser
	path   string
	format *strftime.Strftime
	now    func() time.Time
}

/*------------------------------------------------------------------
 *
 * Function:	OpenMonitor
 *
 * Inputs:	path	- Monitor file name.  Empty string disables.
 *
 *		format	- strftime pattern for the timestamp.
 *
 * Returns:	Always a usable Monitor, possibly one that does nothing.
 *
 *------------------------------------------------------------------*/

func OpenMonitor(path string, format string) *Monitor {
	var m = &Monitor{path: path, now: time.Now}

	if len(path) == 0 {
		return m
	}

	var pattern, patternErr = strftime.New(format)
	if patternErr != nil {
		logger.Warn("Bad monitor time format, using default", "format", format, "err", patternErr)
		pattern, _ = strftime.New(DefaultParams().MonitorTimeFormat)
	}

	m.format = pattern

	var f, openErr = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644) //nolint:gosec // User supplied path from CLI
	if openErr != nil {
		logger.Warn("Can't open monitor file, carrying on without it", "path", path, "err", openErr)
		return m
	}

	m.w = f

	return m
}

// Update appends one line.  Quietly does nothing if the monitor is disabled.
func (m *Monitor) Update(msg string) {
	if m == nil || m.w == nil {
		return
	}

	var _, writeErr = fmt.Fprintf(m.w, "%s %s\n", m.format.FormatString(m.now()), msg)
	if writeErr != nil {
		logger.Warn("Can't write monitor file, giving up on it", "path", m.path, "err", writeErr)
		m.Close()
	}
}

func (m *Monitor) Close() {
	if m == nil || m.w == nil {
		return
	}

	var closeErr = m.w.Close()
	if closeErr != nil {
		logger.Warn("Error closing monitor file", "path", m.path, "err", closeErr)
	}

	m.w = nil
}
