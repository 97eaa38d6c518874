// Package control implements the assistant control loop and the
// multi-step continuation hook: the state machine that mediates between
// the line editor, the captured PTY scrollback, conversation memory, and
// the tool-using transport.
package control

import (
	"github.com/pizlonator/yo/editor"
	"github.com/pizlonator/yo/internal/activitylog"
	"github.com/pizlonator/yo/internal/memory"
	"github.com/pizlonator/yo/internal/scrollback"
	"github.com/pizlonator/yo/internal/yoconfig"
)

const yoPrefix = "yo "
const resetSentinel = "yo reset"

// Session is the single owner object threaded through the public entry
// points: the process-wide mutable state (configuration, memory,
// continuation flags, scrollback proxy) the editor integration needs,
// modeled as a singleton handle.
type Session struct {
	Editor editor.LineEditor
	Memory *memory.Memory
	Proxy  *scrollback.Proxy
	Log    *activitylog.Logger

	// Docs is the product documentation text the surrounding shell
	// supplies at enable time; the core never fetches it itself. An
	// empty string here means the model sees an empty docs result.
	Docs string

	// SystemPrompt is the environment-context prompt the surrounding
	// shell supplies, describing what kind of shell this is and how it
	// wants the assistant to behave. The core only appends the host-OS
	// hint to it; it never invents a base prompt of its own.
	SystemPrompt string

	settings yoconfig.Settings

	lastWasCommand bool
	continuation   continuationState
}

// New creates a Session wired to ed. Scrollback starts disabled (an
// in-memory no-op ring, reading as empty) until Enable is called.
func New(ed editor.LineEditor) *Session {
	settings := yoconfig.Reload()
	return &Session{
		Editor:   ed,
		Memory:   memory.New(settings.Limits),
		Proxy:    scrollback.NewDisabledProxy(settings.ScrollbackBytes),
		Log:      activitylog.Nop(),
		settings: settings,
	}
}

// Enable splits off the PTY proxy so the ring starts capturing real
// terminal output. Safe to call even when the proxy degrades silently
// (non-TTY input, allocation failure): Proxy.Ring keeps reading empty.
func (s *Session) Enable() error {
	proxy, err := scrollback.Enable(s.settings.ScrollbackBytes)
	if err != nil {
		return err
	}
	s.Proxy = proxy
	return nil
}

// Disable tears down the PTY proxy, if one was started.
func (s *Session) Disable() {
	if s.Proxy != nil {
		s.Proxy.Disable()
	}
}

// SetDocs installs the product documentation text the docs tool
// returns; supplied by the surrounding shell, never fetched internally.
func (s *Session) SetDocs(text string) {
	s.Docs = text
}

// SetSystemPrompt installs the base system prompt the surrounding shell
// wants the model to see, e.g. a description of the shell and the
// environment it runs commands in. Every request appends the detected
// host-OS hint to it, when available.
func (s *Session) SetSystemPrompt(text string) {
	s.SystemPrompt = text
}

// SetLogger replaces the activity logger, e.g. with one built from a
// log-file flag at startup.
func (s *Session) SetLogger(l *activitylog.Logger) {
	s.Log = l
}

// ClearHistory empties memory, zeros the scrollback ring, clears
// continuation state, and clears "last was command".
func (s *Session) ClearHistory() {
	s.Memory.Clear()
	s.Proxy.Ring.Reset()
	s.continuation = continuationState{}
	s.lastWasCommand = false
}
