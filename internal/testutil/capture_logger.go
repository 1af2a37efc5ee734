// Package testutil provides common test utilities: a capturing logger and
// preloaded lexicon fixtures for the annotation pipeline.
package testutil

import (
	"sync"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// CaptureLogger implements logging.Logger and records every log entry, so
// tests can verify logging behavior.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is a single log call captured by a CaptureLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewCaptureLogger creates an empty capturing logger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) log(level, msg string, fields []logging.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (c *CaptureLogger) Debug(msg string, fields ...logging.Field) { c.log("debug", msg, fields) }
func (c *CaptureLogger) Info(msg string, fields ...logging.Field)  { c.log("info", msg, fields) }
func (c *CaptureLogger) Warn(msg string, fields ...logging.Field)  { c.log("warn", msg, fields) }
func (c *CaptureLogger) Error(msg string, fields ...logging.Field) { c.log("error", msg, fields) }
func (c *CaptureLogger) Fatal(msg string, fields ...logging.Field) { c.log("fatal", msg, fields) }

func (c *CaptureLogger) With(fields ...logging.Field) logging.Logger { return c }
func (c *CaptureLogger) Named(name string) logging.Logger            { return c }

// Entries returns a copy of all captured log entries.
func (c *CaptureLogger) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// HasMessage reports whether an entry with the given level and message was
// captured.
func (c *CaptureLogger) HasMessage(level, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
