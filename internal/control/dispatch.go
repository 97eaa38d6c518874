package control

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pizlonator/yo/internal/anthropic"
	"github.com/pizlonator/yo/internal/memory"
	"github.com/pizlonator/yo/internal/transcript"
	"github.com/pizlonator/yo/internal/yoconfig"
)

const maxSubRequests = 3

type commandInput struct {
	Command     string `json:"command"`
	Explanation string `json:"explanation"`
	Pending     bool   `json:"pending"`
}

type chatInput struct {
	Response string `json:"response"`
}

type scrollbackInput struct {
	Lines int `json:"lines"`
}

func decodeCommand(raw json.RawMessage) commandInput {
	var in commandInput
	json.Unmarshal(raw, &in)
	return in
}

func decodeChat(raw json.RawMessage) chatInput {
	var in chatInput
	json.Unmarshal(raw, &in)
	return in
}

func decodeScrollbackLines(raw json.RawMessage) int {
	var in scrollbackInput
	json.Unmarshal(raw, &in)
	return anthropic.ClampScrollbackLines(in.Lines)
}

// buildSystemPrompt appends the detected host-OS description to the
// shell-supplied system prompt, when /etc/os-release is present and
// readable. base is whatever the embedding shell installed via
// SetSystemPrompt; this never invents a base prompt of its own.
func buildSystemPrompt(base string) string {
	hint, ok := yoconfig.HostOSHint()
	return appendHostOSHint(base, hint, ok)
}

// appendHostOSHint appends the exact "The user is running <hint>." line
// to base when ok, otherwise returns base unchanged. Split out from
// buildSystemPrompt so the composition logic is testable independent of
// the real /etc/os-release.
func appendHostOSHint(base, hint string, ok bool) string {
	if !ok {
		return base
	}
	line := "The user is running " + hint + "."
	if base == "" {
		return line
	}
	return base + "\n" + line
}

// requestRepairLoop drives the initial plain-flavor request, the bounded
// scrollback/docs sub-request loop, and the explanation-repair
// follow-up. It is shared by the initial turn and by the continuation
// hook re-entering the same flow.
func (s *Session) requestRepairLoop(apiKey, query string) (anthropic.ToolUse, error) {
	client := anthropic.NewClient(apiKey, s.settings.Model)
	system := buildSystemPrompt(s.SystemPrompt)
	ctx := context.Background()

	tool, err := client.CallTool(ctx, system, transcript.Plain(s.Memory.Exchanges(), query), anthropic.Tools())
	if err != nil {
		return anthropic.ToolUse{}, err
	}

	for i := 0; i < maxSubRequests; i++ {
		if tool.Name != anthropic.ToolScrollback && tool.Name != anthropic.ToolDocs {
			break
		}
		var messages []anthropic.Message
		switch tool.Name {
		case anthropic.ToolScrollback:
			lines := decodeScrollbackLines(tool.Input)
			payload := s.Proxy.Ring.Read(lines)
			s.Log.Continuation("scrollback", true)
			messages = transcript.WithScrollback(s.Memory.Exchanges(), query, tool.ID, lines, payload)
		case anthropic.ToolDocs:
			s.Log.Continuation("docs", true)
			messages = transcript.WithDocs(s.Memory.Exchanges(), query, tool.ID, s.Docs)
		}
		tool, err = client.CallTool(ctx, system, messages, anthropic.Tools())
		if err != nil {
			return anthropic.ToolUse{}, err
		}
		if i == maxSubRequests-1 && (tool.Name == anthropic.ToolScrollback || tool.Name == anthropic.ToolDocs) {
			return anthropic.ToolUse{}, ErrTooManyScrollback
		}
	}

	if tool.Name == anthropic.ToolCommand {
		in := decodeCommand(tool.Input)
		if in.Pending && in.Explanation == "" {
			repaired, err := s.repairExplanation(ctx, client, system, query, tool, in)
			if err == nil {
				tool = repaired
			}
			// On repair failure or a non-command/empty-explanation retry,
			// keep the original — tool is left unchanged.
		}
	}

	return tool, nil
}

// repairExplanation issues one follow-up request asking the model to
// supply a missing explanation for a pending command, accepting the new
// response iff it is a command with a non-empty explanation.
func (s *Session) repairExplanation(ctx context.Context, client *anthropic.Client, system, query string, original anthropic.ToolUse, in commandInput) (anthropic.ToolUse, error) {
	s.Log.ExplanationRepair(original.ID)
	messages := transcript.WithExplanationRepair(s.Memory.Exchanges(), query, original.ID, in.Command, in.Pending)
	retried, err := client.CallTool(ctx, system, messages, anthropic.Tools())
	if err != nil {
		return anthropic.ToolUse{}, err
	}
	if retried.Name != anthropic.ToolCommand {
		return anthropic.ToolUse{}, fmt.Errorf("explanation repair returned non-command tool %q", retried.Name)
	}
	repairedIn := decodeCommand(retried.Input)
	if repairedIn.Explanation == "" {
		return anthropic.ToolUse{}, fmt.Errorf("explanation repair still missing explanation")
	}
	return retried, nil
}

// dispatch is the final command/chat/unknown branch of a turn.
func (s *Session) dispatch(tool anthropic.ToolUse, query string) {
	switch tool.Name {
	case anthropic.ToolCommand:
		in := decodeCommand(tool.Input)
		s.Log.Dispatch(tool.Name, "command")
		if in.Explanation != "" {
			s.Editor.Print(colorize(s.settings, in.Explanation))
		}
		s.Memory.Add(memory.Exchange{
			Query:     query,
			Tool:      memory.ToolCommand,
			Content:   in.Command,
			ToolUseID: toolUseID(tool.ID),
			Executed:  false,
			Pending:   in.Pending,
		})
		s.Editor.ReplaceLine(in.Command)
		s.Editor.SetCursorToEnd()
		s.lastWasCommand = true
		if in.Pending {
			s.armContinuation(in.Command)
		}

	case anthropic.ToolChat:
		in := decodeChat(tool.Input)
		s.Log.Dispatch(tool.Name, "chat")
		s.Editor.Print(colorize(s.settings, in.Response))
		s.Memory.Add(memory.Exchange{
			Query:     query,
			Tool:      memory.ToolChat,
			Content:   in.Response,
			ToolUseID: toolUseID(tool.ID),
			Executed:  true,
		})
		s.Editor.ReplaceLine("")
		s.lastWasCommand = false
		s.disarmContinuation()

	default:
		s.Log.Dispatch(tool.Name, "unknown")
		s.reportTurnError(errUnknownResponseType)
	}
}

// toolUseID guarantees a non-empty id even if the model's synthesized
// tool-use carried one already (it always does); uuid is here as a
// fallback generator for any tool-use somehow missing one, since stored
// exchanges require a non-empty id after final dispatch.
func toolUseID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (s *Session) reportTurnError(err error) {
	s.Log.TransportError(err)
	s.Editor.Print(colorize(s.settings, errorMessage(err)))
}
