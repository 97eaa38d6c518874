package control

import "github.com/pizlonator/yo/internal/yoconfig"

// continuationState tracks a pending multi-step command plan between
// the turn that suggested it and the pre-prompt hook that continues it.
type continuationState struct {
	armed     bool
	suggested string // the command text the model suggested
	executed  string // the line the user actually executed (may differ)
}

// armContinuation records the pending suggestion. The pre-prompt hook is
// installed later, by trackExecuted, once the user submits a non-empty
// line.
func (s *Session) armContinuation(suggested string) {
	s.continuation = continuationState{armed: true, suggested: suggested}
}

func (s *Session) disarmContinuation() {
	s.continuation = continuationState{}
	s.Editor.ClearPrePromptHook()
}

// HandleSIGINT is the one-shot continuation cleanup: an editor-level
// interrupt during line editing must clear the active flag and the
// "last was command" flag so the next prompt is pristine.
// The host's own SIGINT handling during editor input calls this; it is
// not part of the LineEditor contract itself.
func (s *Session) HandleSIGINT() {
	if s.continuation.armed {
		s.disarmContinuation()
	}
	s.lastWasCommand = false
}

// fireContinuation is the one-shot pre-prompt callback that fires after
// the user executes a pending command.
func (s *Session) fireContinuation() {
	s.Editor.ClearPrePromptHook()

	if !s.continuation.armed {
		return // SIGINT already cleared it
	}
	cont := s.continuation
	s.continuation = continuationState{}

	s.Editor.Print(colorize(s.settings, "Thinking…"))

	apiKey, err := yoconfig.LoadAPIKey()
	if err != nil {
		s.Editor.ClearLine()
		s.Editor.Print(colorize(s.settings, err.Error()))
		return
	}

	scrollbackText := s.Proxy.Ring.Read(200)
	if scrollbackText == "" {
		scrollbackText = "(no output)"
	}

	query := continuationQuery(cont.suggested, cont.executed, scrollbackText)

	tool, err := s.requestRepairLoop(apiKey, query)
	s.Editor.ClearLine()
	if err != nil {
		s.reportTurnError(err)
		return
	}
	s.dispatch(tool, query)
}

func continuationQuery(suggested, executed, scrollbackText string) string {
	if executed != suggested {
		return "[continuation] You suggested: " + suggested +
			"\nThe user edited and executed: " + executed +
			"\nHere is the terminal output:\n```\n" + scrollbackText + "\n```"
	}
	return "[continuation] The user executed the previous command. Here is the terminal output:\n```\n" +
		scrollbackText + "\n```"
}
