package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/librarydesk/shell"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// Attr returns the value logged for key, or nil.
func (r SpyLogRecord) Attr(key string) any {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1]
		}
	}

	return nil
}

// ContextualLoggerSpy captures logging calls for inspection in tests.
// It implements both shell.ContextualLogger and shell.Logger.
type ContextualLoggerSpy struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) record(level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args})
}

// DebugContext implements shell.ContextualLogger.
func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

// InfoContext implements shell.ContextualLogger.
func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

// WarnContext implements shell.ContextualLogger.
func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

// ErrorContext implements shell.ContextualLogger.
func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

// Debug implements shell.Logger.
func (s *ContextualLoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }

// Info implements shell.Logger.
func (s *ContextualLoggerSpy) Info(msg string, args ...any) { s.record("info", msg, args) }

// Warn implements shell.Logger.
func (s *ContextualLoggerSpy) Warn(msg string, args ...any) { s.record("warn", msg, args) }

// Error implements shell.Logger.
func (s *ContextualLoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// GetRecords returns a copy of all log records of level, or every record for an empty level.
func (s *ContextualLoggerSpy) GetRecords(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []SpyLogRecord
	for _, r := range s.records {
		if level == "" || r.Level == level {
			found = append(found, r)
		}
	}

	return found
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (s *ContextualLoggerSpy) GetTotalRecordCount() int {
	return len(s.GetRecords(""))
}

// CountLogs counts the records of level with message.
func (s *ContextualLoggerSpy) CountLogs(level, message string) int {
	count := 0
	for _, r := range s.GetRecords(level) {
		if r.Message == message {
			count++
		}
	}

	return count
}

// HasDebugLog checks if a debug log with the specified message exists.
func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	return s.CountLogs("debug", message) > 0
}

// HasInfoLog checks if an info log with the specified message exists.
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return s.CountLogs("info", message) > 0
}

// HasWarnLog checks if a warn log with the specified message exists.
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	return s.CountLogs("warn", message) > 0
}

// HasErrorLog checks if an error log with the specified message exists.
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return s.CountLogs("error", message) > 0
}

var (
	_ shell.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ shell.Logger           = (*ContextualLoggerSpy)(nil)
)
