package anthropic

import "encoding/json"

// Tool name constants, shared with internal/memory's exchange tool names.
const (
	ToolCommand    = "command"
	ToolChat       = "chat"
	ToolScrollback = "scrollback"
	ToolDocs       = "docs"
)

func rawSchema(s string) json.RawMessage { return json.RawMessage(s) }

// Tools returns the stable wire-surface tool schema.
func Tools() []ToolDef {
	return []ToolDef{
		{
			Name:        ToolCommand,
			Description: "Suggest a shell command for the user to review and run.",
			InputSchema: rawSchema(`{
				"type": "object",
				"properties": {
					"command": {"type": "string", "description": "The shell command to suggest"},
					"explanation": {"type": "string", "description": "A brief explanation of what the command does"},
					"pending": {"type": "boolean", "description": "True if this command is one step of a multi-step plan"}
				},
				"required": ["command", "explanation"]
			}`),
		},
		{
			Name:        ToolChat,
			Description: "Reply with a text-only chat answer instead of a command.",
			InputSchema: rawSchema(`{
				"type": "object",
				"properties": {
					"response": {"type": "string", "description": "The chat reply text"}
				},
				"required": ["response"]
			}`),
		},
		{
			Name:        ToolScrollback,
			Description: "Request recent terminal scrollback output before answering.",
			InputSchema: rawSchema(`{
				"type": "object",
				"properties": {
					"lines": {"type": "integer", "description": "Number of recent lines requested (1-1000, default 50)"}
				},
				"required": ["lines"]
			}`),
		},
		{
			Name:        ToolDocs,
			Description: "Request the product documentation text before answering.",
			InputSchema: rawSchema(`{
				"type": "object",
				"properties": {}
			}`),
		},
	}
}

// ClampScrollbackLines applies the [1,1000] clamp and the 50-line
// default.
func ClampScrollbackLines(n int) int {
	if n <= 0 {
		return 50
	}
	if n > 1000 {
		return 1000
	}
	return n
}
