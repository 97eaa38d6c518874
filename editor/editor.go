// Package editor defines the small interface the assistant control loop
// needs from its host line editor. The loop intercepts `yo `-prefixed
// lines; everything else about prompting, history recall, and raw-mode
// input handling belongs to the host and is out of scope here.
package editor

// LineEditor is the contract internal/control drives. A concrete
// implementation owns the actual terminal I/O; cmd/yo provides a
// minimal one.
type LineEditor interface {
	// Line returns the current contents of the edit buffer.
	Line() string

	// ReplaceLine overwrites the edit buffer with s.
	ReplaceLine(s string)

	// SetCursorToEnd moves the caret to the end of the current buffer.
	SetCursorToEnd()

	// AddHistory appends s to the editor's own recall history.
	AddHistory(s string)

	// Print writes already-colored output; no trailing reset needed.
	Print(s string)

	// ClearLine erases whatever is currently drawn on the cursor's line,
	// e.g. by writing "\r" followed by the CSI erase-to-end-of-line
	// sequence. Used to remove the transient "Thinking…" indicator once
	// a result is ready to print.
	ClearLine()

	// SetPrePromptHook installs a one-shot callback to run immediately
	// before the next prompt is displayed, replacing any previously
	// installed hook.
	SetPrePromptHook(f func())

	// ClearPrePromptHook uninstalls any pending pre-prompt hook.
	ClearPrePromptHook()
}
