// Package logging provides the timestamped line logger used by the CLI and
// the review orchestrator.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger writes "[RFC3339] message" lines to a file and, optionally, a
// second writer such as stderr. A nil *Logger discards everything.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	out  io.Writer
	now  func() time.Time
}

// New opens path for appending, creating parent directories. An empty path
// logs only to echo. A nil echo writes only to the file.
func New(path string, echo io.Writer) (*Logger, error) {
	l := &Logger{now: time.Now}
	var writers []io.Writer
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}
	if echo != nil {
		writers = append(writers, echo)
	}
	switch len(writers) {
	case 0:
		l.out = io.Discard
	case 1:
		l.out = writers[0]
	default:
		l.out = io.MultiWriter(writers...)
	}
	return l, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line. Safe for concurrent use.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s\n", l.now().Format(time.RFC3339), line)
}
