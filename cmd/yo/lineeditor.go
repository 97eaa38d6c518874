package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	keyBackspace = 0x7f
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyEnter     = '\r'
	keyEscape    = 0x1b
)

// termEditor is a minimal single-line raw-mode editor.LineEditor
// implementation: a printable-character buffer with backspace, history
// recall on Up/Down, and a one-shot pre-prompt hook. Generalized from the
// raw-mode toggling and ANSI output conventions of a readline-less CLI
// agent's terminal package into an editable, history-aware buffer.
type termEditor struct {
	buf     []rune
	cursor  int
	history []string
	histPos int

	prePrompt func()

	origState *term.State
}

func newTermEditor() *termEditor {
	return &termEditor{}
}

func (e *termEditor) enableRawMode() error {
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	e.origState = state
	return nil
}

func (e *termEditor) disableRawMode() {
	if e.origState != nil {
		term.Restore(int(os.Stdin.Fd()), e.origState)
	}
}

func (e *termEditor) Line() string {
	return string(e.buf)
}

func (e *termEditor) ReplaceLine(s string) {
	e.clearLineOnScreen()
	e.buf = []rune(s)
	e.cursor = len(e.buf)
	e.redraw()
}

func (e *termEditor) SetCursorToEnd() {
	e.cursor = len(e.buf)
	e.redraw()
}

func (e *termEditor) AddHistory(s string) {
	e.history = append(e.history, s)
	e.histPos = len(e.history)
}

func (e *termEditor) Print(s string) {
	fmt.Print("\r\n" + s + "\r\n")
}

func (e *termEditor) ClearLine() {
	e.clearLineOnScreen()
}

func (e *termEditor) SetPrePromptHook(f func()) {
	e.prePrompt = f
}

func (e *termEditor) ClearPrePromptHook() {
	e.prePrompt = nil
}

// runPrePromptHook fires and clears any armed hook before the next prompt
// is drawn, matching the editor's documented contract.
func (e *termEditor) runPrePromptHook() {
	if e.prePrompt == nil {
		return
	}
	hook := e.prePrompt
	e.prePrompt = nil
	hook()
}

func (e *termEditor) clearLineOnScreen() {
	fmt.Print("\r\x1b[K")
}

func (e *termEditor) redraw() {
	fmt.Print("\r\x1b[K> " + string(e.buf))
	if back := len(e.buf) - e.cursor; back > 0 {
		fmt.Printf("\x1b[%dD", back)
	}
}

// readResult distinguishes why readLine returned, since Ctrl+C and Ctrl+D
// need different REPL handling (interrupt the current line vs. quit).
type readResult int

const (
	readOK readResult = iota
	readEOF
	readInterrupted
)

// readLine blocks for one full line of raw-mode keyboard input, handling
// backspace and history recall. It starts from whatever the buffer
// already holds (e.g. a command prefilled by ReplaceLine) and empties the
// buffer once the line is submitted or interrupted.
func (e *termEditor) readLine() (line string, result readResult) {
	e.redraw()

	in := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(in)
		if err != nil || n == 0 {
			return "", readEOF
		}
		switch in[0] {
		case keyEnter, '\n':
			fmt.Print("\r\n")
			line = string(e.buf)
			e.buf, e.cursor = e.buf[:0], 0
			return line, readOK
		case keyCtrlC:
			fmt.Print("^C\r\n")
			e.buf, e.cursor = e.buf[:0], 0
			return "", readInterrupted
		case keyCtrlD:
			if len(e.buf) == 0 {
				return "", readEOF
			}
		case keyBackspace, 0x08:
			if e.cursor > 0 {
				e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
				e.cursor--
				e.redraw()
			}
		case keyEscape:
			// Swallow arrow-key escape sequences (`ESC [ A/B/C/D`); only
			// Up/Down history recall is handled, Left/Right are ignored.
			e.handleEscapeSequence()
		default:
			if in[0] >= 0x20 {
				e.buf = append(e.buf[:e.cursor], append([]rune{rune(in[0])}, e.buf[e.cursor:]...)...)
				e.cursor++
				e.redraw()
			}
		}
	}
}

func (e *termEditor) handleEscapeSequence() {
	seq := make([]byte, 2)
	if n, _ := os.Stdin.Read(seq); n < 2 || seq[0] != '[' {
		return
	}
	switch seq[1] {
	case 'A': // Up
		if e.histPos > 0 {
			e.histPos--
			e.buf = []rune(e.history[e.histPos])
			e.cursor = len(e.buf)
			e.redraw()
		}
	case 'B': // Down
		if e.histPos < len(e.history)-1 {
			e.histPos++
			e.buf = []rune(e.history[e.histPos])
		} else {
			e.histPos = len(e.history)
			e.buf = nil
		}
		e.cursor = len(e.buf)
		e.redraw()
	}
}
