// Package logger holds the process-wide structured logger. Output is JSON
// through a rotating file; recent warnings and errors are also kept in memory
// so the dashboard can show them without reading the file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultCapture is how many WARN/ERROR entries are kept in memory.
const DefaultCapture = 100

// LogEntry is a captured WARN or ERROR record.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Err     string
}

// ringBuffer keeps the newest entries and running counts per level.
type ringBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	if size <= 0 {
		size = DefaultCapture
	}
	return &ringBuffer{entries: make([]LogEntry, size)}
}

func (rb *ringBuffer) add(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.entries)
	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % size
	if rb.count < size {
		rb.count++
	}

	switch {
	case entry.Level >= slog.LevelError:
		rb.errorCount++
	case entry.Level >= slog.LevelWarn:
		rb.warnCount++
	}
}

func (rb *ringBuffer) snapshot() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	size := len(rb.entries)
	out := make([]LogEntry, rb.count)
	for i := range out {
		out[i] = rb.entries[(rb.head-rb.count+i+size)%size]
	}
	return out
}

func (rb *ringBuffer) counts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

func (rb *ringBuffer) resetCounts() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.warnCount, rb.errorCount = 0, 0
}

// captureHandler copies WARN and above into the ring buffer before passing
// the record on.
type captureHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		entry := LogEntry{Time: r.Time, Level: r.Level, Message: r.Message}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				entry.Err = a.Value.String()
				return false
			}
			return true
		})
		h.buffer.add(entry)
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{inner: h.inner.WithAttrs(attrs), buffer: h.buffer}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{inner: h.inner.WithGroup(name), buffer: h.buffer}
}

// Options configures Init.
type Options struct {
	Level slog.Level
	// Path of the log file. Empty means ~/.config/bundlewatch/bundlewatch.log.
	Path string
	// Writer replaces the rotating file when set.
	Writer  io.Writer
	Capture int
}

var (
	mu       sync.RWMutex
	log      *slog.Logger
	rotator  *lumberjack.Logger
	captured *ringBuffer
	logPath  string
)

// DefaultPath returns the log file used when Options.Path is empty.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "bundlewatch", "bundlewatch.log")
}

// Init installs the global logger and makes it the slog default.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if rotator != nil {
		rotator.Close()
		rotator = nil
	}

	writer := opts.Writer
	logPath = ""
	if writer == nil {
		logPath = opts.Path
		if logPath == "" {
			logPath = DefaultPath()
		}
		_ = os.MkdirAll(filepath.Dir(logPath), 0755)
		rotator = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		writer = rotator
	}

	captured = newRingBuffer(opts.Capture)
	handler := &captureHandler{
		inner:  slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: opts.Level}),
		buffer: captured,
	}
	log = slog.New(handler)
	slog.SetDefault(log)
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		rotator.Close()
		rotator = nil
	}
}

// Path returns the file being written, or "" when logging to a custom writer.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		return log
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

// With returns a logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// GetCounts returns warnings and errors logged since the last ClearCounts.
func GetCounts() (warn, err int) {
	mu.RLock()
	defer mu.RUnlock()
	if captured == nil {
		return 0, 0
	}
	return captured.counts()
}

// ClearCounts resets the warning and error counters.
func ClearCounts() {
	mu.RLock()
	defer mu.RUnlock()
	if captured != nil {
		captured.resetCounts()
	}
}

// GetEntries returns captured entries, oldest first.
func GetEntries() []LogEntry {
	mu.RLock()
	defer mu.RUnlock()
	if captured == nil {
		return nil
	}
	return captured.snapshot()
}

// Format renders the entry as a single status line.
func (e LogEntry) Format() string {
	line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), e.Message)
	if e.Err != "" {
		line += ": " + e.Err
	}
	return line
}
