// Package activitylog is a small structured JSON-lines diagnostic log:
// one line per turn-start, dispatch outcome, transport error, or
// continuation fire. Logging is opt-in (New with enabled=true, e.g. from
// cmd/yo's -log flag); the zero-value and Nop() loggers are silent no-ops
// so callers never need a nil check.
package activitylog

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger appends one JSON object per line to a file. It is safe for
// concurrent use.
type Logger struct {
	enabled bool
	mu      sync.Mutex
	f       *os.File
}

// New opens path for appending and returns a Logger. When enabled is
// false, New returns a no-op logger and never touches the filesystem.
func New(enabled bool, path string) *Logger {
	if !enabled {
		return &Logger{}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return &Logger{}
	}
	return &Logger{enabled: true, f: f}
}

// Nop returns a logger that discards everything, for callers that never
// configured a log file.
func Nop() *Logger {
	return &Logger{}
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}

func (l *Logger) write(event string, fields map[string]any) {
	if l == nil || !l.enabled || l.f == nil {
		return
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"event": event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.Write(append(line, '\n'))
}

// TurnStart logs the beginning of a user-initiated turn.
func (l *Logger) TurnStart(query string) {
	l.write("turn_start", map[string]any{"query": query})
}

// Dispatch logs the outcome of a dispatched tool-use: which tool the
// model chose and whether it resulted in a prefill, a chat reply, or a
// sub-request.
func (l *Logger) Dispatch(tool string, outcome string) {
	l.write("dispatch", map[string]any{"tool": tool, "outcome": outcome})
}

// TransportError logs a failed or cancelled request to the Anthropic API.
func (l *Logger) TransportError(err error) {
	l.write("transport_error", map[string]any{"error": err.Error()})
}

// Continuation logs a scrollback/docs sub-request firing: the tool name
// and whether it completed or was cancelled.
func (l *Logger) Continuation(tool string, completed bool) {
	l.write("continuation", map[string]any{"tool": tool, "completed": completed})
}

// ExplanationRepair logs a repair round-trip issued for a command
// tool-use missing its required explanation field.
func (l *Logger) ExplanationRepair(toolUseID string) {
	l.write("explanation_repair", map[string]any{"tool_use_id": toolUseID})
}
