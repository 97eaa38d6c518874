package control

import (
	"strings"

	"github.com/pizlonator/yo/internal/yoconfig"
)

// AcceptLine is the editor's accept-line entry point: every line the
// user submits passes through here before the host's own handling. It
// tracks whether the previous suggestion was executed and runs the full
// turn algorithm for `yo `-prefixed lines. Reports handled=true when it
// intercepted the line (reset sentinel, or a `yo ` request dispatched
// into a prefilled/emptied buffer) — the host must not treat the
// editor's current buffer as a line to execute in that case, since the
// whole point of a `command` suggestion is that the user reviews,
// edits, and submits it as its own subsequent accept-line. handled=false
// means the line fell through unmodified and the host should run it.
func (s *Session) AcceptLine(rawLine string) (handled bool) {
	s.trackExecuted(rawLine)

	if rawLine == resetSentinel {
		s.ClearHistory()
		s.Editor.Print(colorize(s.settings, msgContextReset))
		return true
	}
	if !strings.HasPrefix(rawLine, yoPrefix) {
		return false // normal accept-line behavior is the host's job
	}

	s.Editor.AddHistory(rawLine)
	s.runTurn(rawLine)
	return true
}

// trackExecuted marks the previous exchange executed or arms the
// continuation hook, using the state left behind by the previous turn's
// dispatch. It runs before any other processing of the new line.
func (s *Session) trackExecuted(line string) {
	wasCommand := s.lastWasCommand
	s.lastWasCommand = false
	isYoLine := strings.HasPrefix(line, yoPrefix)

	if wasCommand && !isYoLine {
		s.Memory.MarkLastExecuted()
	}

	if !s.continuation.armed {
		return
	}
	switch {
	case isYoLine:
		s.disarmContinuation()
	case line == "":
		s.disarmContinuation()
	default:
		s.continuation.executed = line
		s.Editor.SetPrePromptHook(s.fireContinuation)
	}
}

// runTurn runs a full turn for a fresh `yo `-prefixed line: reload
// config, notify the log, load credentials, show a thinking indicator,
// run the request/repair loop, and dispatch the result.
func (s *Session) runTurn(rawLine string) {
	s.settings = yoconfig.Reload()
	s.Memory.SetLimits(s.settings.Limits)

	query := rawLine
	s.Log.TurnStart(query)

	apiKey, err := yoconfig.LoadAPIKey()
	if err != nil {
		s.Editor.Print(colorize(s.settings, err.Error()))
		return
	}

	s.Editor.Print(colorize(s.settings, "Thinking…"))

	tool, err := s.requestRepairLoop(apiKey, query)
	s.Editor.ClearLine()
	if err != nil {
		s.reportTurnError(err)
		return
	}
	s.dispatch(tool, query)
}
