// Package logger provides the docshelf console logger.
//
// Debug, Info and Section output appears only with --verbose. Warnings are
// always written and the most recent ones are also kept in memory so that
// `docshelf session status` and the MCP shelf_status tool can report
// conditions that scrolled past, such as a session that was not saved.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// KeepWarnings is how many recent warnings are retained.
const KeepWarnings = 20

// Warning is a retained warning message.
type Warning struct {
	At      time.Time
	Message string
}

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr

	// recent is a ring of the last KeepWarnings warnings; next is the
	// slot the following warning goes into.
	recent []Warning
	next   int
	now    = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Debug prints a message in verbose mode.
func Debug(format string, args ...any) {
	logVerbose("[DEBUG] ", format, args...)
}

// Info prints an informational message in verbose mode.
func Info(format string, args ...any) {
	logVerbose("[INFO] ", format, args...)
}

// Section prints a section header in verbose mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Warn prints a warning regardless of verbose mode and retains it.
func Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	mu.Lock()
	defer mu.Unlock()

	fmt.Fprintf(output, "[WARN] %s\n", msg)

	w := Warning{At: now(), Message: msg}
	if len(recent) < KeepWarnings {
		recent = append(recent, w)
		return
	}
	recent[next] = w
	next = (next + 1) % KeepWarnings
}

// RecentWarnings returns the retained warnings, oldest first.
func RecentWarnings() []Warning {
	mu.Lock()
	defer mu.Unlock()

	out := make([]Warning, 0, len(recent))
	out = append(out, recent[next:]...)
	out = append(out, recent[:next]...)
	return out
}

// ClearWarnings discards the retained warnings.
func ClearWarnings() {
	mu.Lock()
	recent = nil
	next = 0
	mu.Unlock()
}

func logVerbose(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
