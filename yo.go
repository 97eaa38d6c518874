// Package yo is the public entry point a line editor embeds to get
// `yo `-prefixed request interception, PTY scrollback capture, and
// multi-step command continuations. It exposes a small package-level API
// over a single process-wide session, since a line editor integration
// point is itself process-wide.
package yo

import (
	"github.com/pizlonator/yo/editor"
	"github.com/pizlonator/yo/internal/activitylog"
	"github.com/pizlonator/yo/internal/control"
)

// LineEditor is re-exported so callers don't need to import the internal
// editor package directly to implement it.
type LineEditor = editor.LineEditor

var session *control.Session

// Init binds the library to ed. Must be called once before any other
// function in this package.
func Init(ed LineEditor) {
	session = control.New(ed)
}

// Enable starts the PTY proxy, splitting the process into a pump that
// keeps the real terminal and a shell half that continues running the
// control loop. Degrades silently (an error here just means scrollback
// reads as empty) when stdin/stdout aren't both terminals.
func Enable() error {
	return session.Enable()
}

// Disable tears down the PTY proxy, if one was started.
func Disable() {
	session.Disable()
}

// SetDocs installs the text the `docs` tool returns. The core never
// fetches documentation itself; the embedding shell supplies it.
func SetDocs(text string) {
	session.SetDocs(text)
}

// SetSystemPrompt installs the base system prompt sent with every
// request, giving the model context about the shell and environment it
// is assisting. The core never invents one of its own beyond appending
// the detected host-OS hint; callers should set this before the first
// turn.
func SetSystemPrompt(text string) {
	session.SetSystemPrompt(text)
}

// SetLogger installs a structured activity logger, e.g. one built from an
// app-specific debug flag at startup. Nil-safe: an unset logger is a
// no-op logger.
func SetLogger(l *activitylog.Logger) {
	session.SetLogger(l)
}

// AcceptLine is the accept-line hook: call it with the line about to be
// submitted, before the host's own accept-line handling runs. Returns
// true if the line was intercepted (a `yo ` request or the reset
// sentinel) — in that case the host must not execute the editor's
// current buffer, since the assistant may have prefilled or cleared it
// for the user to review and resubmit.
func AcceptLine(line string) bool {
	return session.AcceptLine(line)
}

// HandleSIGINT is the editor-level interrupt hook: call it whenever the
// host observes SIGINT during line editing, so an armed continuation
// doesn't fire on stale state.
func HandleSIGINT() {
	session.HandleSIGINT()
}

// CloseLogger flushes and closes the activity logger installed by
// SetLogger, if any. Safe to call even when no logger was ever set.
func CloseLogger() error {
	if session == nil {
		return nil
	}
	return session.Log.Close()
}

// ClearHistory empties conversation memory, zeros the scrollback ring,
// and clears any armed continuation. AcceptLine also calls this
// automatically for the `yo reset` sentinel; exported for hosts that
// want a bound key or command of their own.
func ClearHistory() {
	session.ClearHistory()
}
