// Package transcript implements the message builder: it reconstructs the
// turn-by-turn message log from conversation memory for each outgoing
// request, in three flavors (plain, with-scrollback-result,
// with-docs-result), plus the explanation-repair follow-up the control
// loop needs.
package transcript

import (
	"encoding/json"

	"github.com/pizlonator/yo/internal/anthropic"
	"github.com/pizlonator/yo/internal/memory"
)

const (
	resultExecuted     = "User executed the command"
	resultNotExecuted  = "User did not execute the command"
	resultAcknowledged = "Acknowledged"
)

// History reconstructs three messages per past exchange: a user query, a
// synthetic assistant tool-use, and a user tool-result. Replaying past
// turns this way keeps the model's state consistent with its own prior
// choices even after pruning.
func History(exchanges []memory.Exchange) []anthropic.Message {
	msgs := make([]anthropic.Message, 0, len(exchanges)*3)
	for _, e := range exchanges {
		msgs = append(msgs,
			anthropic.Message{Role: "user", Content: e.Query},
			anthropic.Message{Role: "assistant", Content: []anthropic.Block{toolUseBlock(e)}},
			anthropic.Message{Role: "user", Content: []anthropic.Block{toolResultBlock(e)}},
		)
	}
	return msgs
}

func toolUseBlock(e memory.Exchange) anthropic.Block {
	var input json.RawMessage
	switch e.Tool {
	case memory.ToolCommand:
		payload := map[string]any{"command": e.Content, "explanation": "(from history)"}
		if e.Pending {
			payload["pending"] = true
		}
		input, _ = json.Marshal(payload)
	case memory.ToolChat:
		input, _ = json.Marshal(map[string]string{"response": e.Content})
	default:
		input = json.RawMessage(`{}`)
	}
	return anthropic.Block{Type: anthropic.BlockToolUse, ID: e.ToolUseID, Name: e.Tool, Input: input}
}

func toolResultBlock(e memory.Exchange) anthropic.Block {
	text := resultAcknowledged
	if e.Tool == memory.ToolCommand {
		if e.Executed {
			text = resultExecuted
		} else {
			text = resultNotExecuted
		}
	}
	return anthropic.Block{Type: anthropic.BlockToolResult, ToolUseID: e.ToolUseID, Content: text}
}

// Plain builds the "plain" flavor: history plus the current turn as a bare
// user text message.
func Plain(exchanges []memory.Exchange, query string) []anthropic.Message {
	return append(History(exchanges), anthropic.Message{Role: "user", Content: query})
}

// WithScrollback builds the "with-scrollback-result" flavor: history, the
// current user query, then a synthetic assistant scrollback tool-use
// (carrying the requested line count) and the actual scrollback text as the
// tool result.
func WithScrollback(exchanges []memory.Exchange, query, toolUseID string, lines int, scrollbackText string) []anthropic.Message {
	input, _ := json.Marshal(map[string]int{"lines": lines})
	return appendSubRequest(exchanges, query, toolUseID, memory.ToolScrollback, input, scrollbackText)
}

// WithDocs builds the "with-docs-result" flavor: history, the current user
// query, then a synthetic assistant docs tool-use (empty input) and the
// documentation text as the tool result.
func WithDocs(exchanges []memory.Exchange, query, toolUseID, docsText string) []anthropic.Message {
	return appendSubRequest(exchanges, query, toolUseID, memory.ToolDocs, json.RawMessage(`{}`), docsText)
}

func appendSubRequest(exchanges []memory.Exchange, query, toolUseID, toolName string, input json.RawMessage, resultText string) []anthropic.Message {
	msgs := append(History(exchanges), anthropic.Message{Role: "user", Content: query})
	msgs = append(msgs,
		anthropic.Message{Role: "assistant", Content: []anthropic.Block{{Type: anthropic.BlockToolUse, ID: toolUseID, Name: toolName, Input: input}}},
		anthropic.Message{Role: "user", Content: []anthropic.Block{{Type: anthropic.BlockToolResult, ToolUseID: toolUseID, Content: resultText}}},
	)
	return msgs
}

// WithExplanationRepair builds the follow-up request issued when a
// pending command tool-use arrived with a missing/empty explanation: it
// replays the original tool-use and a tool-result asking for the missing
// field.
func WithExplanationRepair(exchanges []memory.Exchange, query, toolUseID, command string, pending bool) []anthropic.Message {
	payload := map[string]any{"command": command}
	if pending {
		payload["pending"] = true
	}
	input, _ := json.Marshal(payload)
	msgs := append(History(exchanges), anthropic.Message{Role: "user", Content: query})
	msgs = append(msgs,
		anthropic.Message{Role: "assistant", Content: []anthropic.Block{{Type: anthropic.BlockToolUse, ID: toolUseID, Name: memory.ToolCommand, Input: input}}},
		anthropic.Message{Role: "user", Content: []anthropic.Block{{Type: anthropic.BlockToolResult, ToolUseID: toolUseID, Content: "Your command response is missing the required explanation field. Please call the command tool again with a non-empty explanation."}}},
	)
	return msgs
}
