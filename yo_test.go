package yo

import "testing"

type stubEditor struct {
	line      string
	printed   []string
	prePrompt func()
}

func (e *stubEditor) Line() string             { return e.line }
func (e *stubEditor) ReplaceLine(s string)      { e.line = s }
func (e *stubEditor) SetCursorToEnd()           {}
func (e *stubEditor) AddHistory(s string)       {}
func (e *stubEditor) Print(s string)            { e.printed = append(e.printed, s) }
func (e *stubEditor) ClearLine()                {}
func (e *stubEditor) SetPrePromptHook(f func()) { e.prePrompt = f }
func (e *stubEditor) ClearPrePromptHook()       { e.prePrompt = nil }

func TestInitAndAcceptLineNonYoLineFallsThrough(t *testing.T) {
	Init(&stubEditor{})
	if handled := AcceptLine("ls -la"); handled {
		t.Error("expected a non-yo line to fall through unhandled")
	}
}

func TestAcceptLineResetSentinelIsHandled(t *testing.T) {
	Init(&stubEditor{})
	if handled := AcceptLine("yo reset"); !handled {
		t.Error("expected the reset sentinel to be handled")
	}
}

func TestHandleSIGINTIsSafeWithNoArmedContinuation(t *testing.T) {
	Init(&stubEditor{})
	HandleSIGINT() // must not panic
}

func TestClearHistoryIsSafeAfterInit(t *testing.T) {
	Init(&stubEditor{})
	ClearHistory() // must not panic
}

func TestCloseLoggerIsNoopBeforeInit(t *testing.T) {
	session = nil
	if err := CloseLogger(); err != nil {
		t.Errorf("expected nil error before Init, got %v", err)
	}
}
