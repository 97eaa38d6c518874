// Package anthropic models the Anthropic Messages API wire shapes used by
// the tool-call transport and performs the HTTP exchange itself,
// including the self-pipe cancellation the assistant control loop needs.
package anthropic

import "encoding/json"

// Endpoint is the Messages API URL.
const Endpoint = "https://api.anthropic.com/v1/messages"

// APIVersion is the anthropic-version header value the wire protocol
// requires.
const APIVersion = "2023-06-01"

// Block type discriminators.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Message is one entry in the messages array: a user or assistant turn
// whose Content is a single string (plain text) or a slice of Block.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Block is a single content block. Only the fields relevant to its Type
// are populated; json omits the rest via omitempty.
type Block struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

// ToolDef describes one tool the model may call.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolChoice forces the model to emit a tool call rather than plain text
// (tool_choice = {type:"any"}); it may still emit several.
type ToolChoice struct {
	Type string `json:"type"`
}

// Request is the full outgoing request body.
type Request struct {
	Model      string     `json:"model"`
	MaxTokens  int        `json:"max_tokens"`
	System     string     `json:"system,omitempty"`
	Messages   []Message  `json:"messages"`
	Tools      []ToolDef  `json:"tools,omitempty"`
	ToolChoice ToolChoice `json:"tool_choice"`
}

// Response is the full incoming response body.
type Response struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Role       string    `json:"role"`
	Content    []Block   `json:"content"`
	StopReason string    `json:"stop_reason"`
	Error      *APIError `json:"error,omitempty"`
}

// APIError is the vendor error shape; Message is reported verbatim.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ToolUse is a normalized single tool-use record: the unit the client
// hands back to the control loop after parsing/retry/synthesis.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// CountToolUses returns the number of tool_use blocks in a content array.
func CountToolUses(content []Block) int {
	n := 0
	for _, b := range content {
		if b.Type == BlockToolUse {
			n++
		}
	}
	return n
}

// FirstToolUse returns the first tool_use block, if any.
func FirstToolUse(content []Block) (Block, bool) {
	for _, b := range content {
		if b.Type == BlockToolUse {
			return b, true
		}
	}
	return Block{}, false
}

// FirstText returns the first text block's text, if any.
func FirstText(content []Block) (string, bool) {
	for _, b := range content {
		if b.Type == BlockText {
			return b.Text, true
		}
	}
	return "", false
}
