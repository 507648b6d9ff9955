// Package log keeps the sync run log. Commands print their own styled
// output to the terminal; this file under the XDG state dir is the
// durable record of what sync did and when.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"
)

const fileName = "vitalsync.log"

var logFile *os.File

// Init opens the sync log in dir, creating it on first run, and
// redirects the standard log package into it so library output (GORM,
// chart rendering) lands in the file instead of the terminal.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	stdlog.SetOutput(f)
	stdlog.SetFlags(stdlog.Ldate | stdlog.Ltime)
	return nil
}

func stamp(msg string) string {
	return fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Printf records a formatted line in the log file. Before Init it falls
// back to stdout so nothing is silently dropped.
func Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logFile == nil {
		fmt.Println(msg)
		return
	}
	_, _ = logFile.WriteString(stamp(msg))
}

// Errorf records a formatted error line and echoes it to stderr.
func Errorf(format string, args ...interface{}) {
	msg := stamp(fmt.Sprintf(format, args...))
	_, _ = fmt.Fprint(os.Stderr, msg)
	if logFile != nil {
		_, _ = logFile.WriteString(msg)
	}
}

// Close closes the log file and points the standard log package back at
// stderr.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	stdlog.SetOutput(os.Stderr)
	return f.Close()
}
