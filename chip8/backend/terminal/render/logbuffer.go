package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single log message with metadata
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer is a thread-safe circular buffer for log entries
type LogBuffer struct {
	entries []LogEntry
	size    int
	index   int
	count   int
	mutex   sync.RWMutex
}

// NewLogBuffer creates a new log buffer with the specified capacity
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{
		entries: make([]LogEntry, size),
		size:    size,
	}
}

// Add inserts a new log entry into the buffer
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()

	lb.entries[lb.index] = entry
	lb.index = (lb.index + 1) % lb.size
	if lb.count < lb.size {
		lb.count++
	}
}

// GetRecent returns the most recent log entries at or above minLevel, newest first
func (lb *LogBuffer) GetRecent(maxCount int, minLevel slog.Level) []LogEntry {
	lb.mutex.RLock()
	defer lb.mutex.RUnlock()

	var result []LogEntry
	for i := 0; i < lb.count; i++ {
		if maxCount > 0 && len(result) >= maxCount {
			break
		}
		entry := lb.entries[(lb.index-1-i+lb.size)%lb.size]
		if entry.Level >= minLevel {
			result = append(result, entry)
		}
	}

	return result
}

// Len returns the number of stored entries.
func (lb *LogBuffer) Len() int {
	lb.mutex.RLock()
	defer lb.mutex.RUnlock()
	return lb.count
}

// Clear removes all entries from the buffer
func (lb *LogBuffer) Clear() {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()

	lb.count = 0
	lb.index = 0
}

// LogBufferHandler is a slog.Handler that captures logs to a LogBuffer
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	attrs  string
}

// NewLogBufferHandler creates a new handler that writes to the given buffer
func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{
		buffer: buffer,
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level
func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle processes a log record
func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.attrs)

	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})

	h.buffer.Add(LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: sb.String(),
	})
	return nil
}

// WithAttrs returns a handler that prefixes attrs to every record.
func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	return &LogBufferHandler{buffer: h.buffer, level: h.level, attrs: sb.String()}
}

// WithGroup returns the same handler, groups are flattened.
func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	return h
}

// FormatLogEntry formats a log entry for display
func FormatLogEntry(entry LogEntry) string {
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05"), LevelTag(entry.Level), entry.Message)
}

// LevelTag returns a three letter tag for level.
func LevelTag(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DBG"
	case level < slog.LevelWarn:
		return "INF"
	case level < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}
