package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"
)

// Sentinel errors for the transport/protocol error taxonomy. The control
// loop maps these to the canonical user-visible diagnostics.
var (
	// ErrCancelled is returned when SIGINT was observed during the request.
	ErrCancelled = errors.New("request cancelled")
	// ErrEmptyBody is returned when the server responded 200 with no bytes.
	ErrEmptyBody = errors.New("empty response body")
	// ErrTooManyToolUses is returned when a retried request still failed to
	// settle on a single tool use and no text block was available either.
	ErrTooManyToolUses = errors.New("model returned multiple tool calls and did not recover")
)

// syntheticChatID is the fixed sentinel id used when the client synthesizes
// a chat tool-use from a bare text block: zero tool-uses means synthesizing
// one from the first text block, with this id standing in for a real one.
const syntheticChatID = "synthetic-chat-block"

const retryNoticeText = "You provided multiple tool calls. Please respond with exactly one tool call that best answers the request."

// Client drives the HTTPS POST to the Anthropic Messages API and
// normalizes the tool-use content of the response.
type Client struct {
	APIKey    string
	Model     string
	MaxTokens int
	Endpoint  string

	httpClient *http.Client
}

// NewClient builds a Client with a 30s request timeout and a 1024
// max_tokens default.
func NewClient(apiKey, model string) *Client {
	return &Client{
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: 1024,
		Endpoint:  Endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TransportError wraps connect/TLS/HTTP/timeout failures (taxonomy class ii).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError wraps unparseable bodies, unexpected shapes, and vendor
// error.message payloads (taxonomy class iv).
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return e.Msg }

// send performs one HTTP POST, cancellable by SIGINT via a self-pipe: Go's
// os/signal delivers to a buffered channel, which functions as the
// self-pipe without needing a raw signal handler + write(2). The handler
// is installed only for the duration of this call (acquire-on-entry,
// restore-on-exit) and any prior registration is replaced by a freshly
// allocated channel, so there is nothing stale to drain.
func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ProtocolError{Msg: fmt.Sprintf("failed to build request: %v", err)}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		resp *Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := c.doHTTP(reqCtx, body)
		done <- outcome{resp, err}
	}()

	select {
	case o := <-done:
		return o.resp, o.err
	case <-sigCh:
		cancel()
		<-done // let the goroutine unwind before returning
		return nil, ErrCancelled
	}
}

func (c *Client) doHTTP(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if len(respBody) == 0 {
		return nil, ErrEmptyBody
	}

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProtocolError{Msg: "failed to parse API response"}
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return nil, &ProtocolError{Msg: parsed.Error.Message}
		}
		return nil, &TransportError{Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, &ProtocolError{Msg: parsed.Error.Message}
	}

	return &parsed, nil
}

// CallTool performs one full request/response turn: send the request,
// then normalize the content array into exactly one ToolUse, synthesizing
// a chat tool-use when the model emitted zero, and retrying once
// (appending the assistant message plus a correction) when it emitted
// more than one.
func (c *Client) CallTool(ctx context.Context, system string, messages []Message, tools []ToolDef) (ToolUse, error) {
	req := Request{
		Model:      c.Model,
		MaxTokens:  c.MaxTokens,
		System:     system,
		Messages:   messages,
		Tools:      tools,
		ToolChoice: ToolChoice{Type: "any"},
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return ToolUse{}, err
	}

	switch n := CountToolUses(resp.Content); {
	case n == 1:
		b, _ := FirstToolUse(resp.Content)
		return ToolUse{ID: b.ID, Name: b.Name, Input: b.Input}, nil

	case n == 0:
		text, _ := FirstText(resp.Content)
		return synthesizeChat(text), nil

	default:
		return c.retryForSingleTool(ctx, system, messages, tools, resp)
	}
}

func synthesizeChat(text string) ToolUse {
	input, _ := json.Marshal(map[string]string{"response": text})
	return ToolUse{ID: syntheticChatID, Name: ToolChat, Input: input}
}

// retryForSingleTool appends the offending assistant message plus a user
// correction, reissues exactly once, and takes the first tool-use
// unconditionally. If the retry still produced none, it falls back to
// synthesizing a chat tool-use from any text block rather than failing
// the whole turn outright.
func (c *Client) retryForSingleTool(ctx context.Context, system string, messages []Message, tools []ToolDef, firstResp *Response) (ToolUse, error) {
	blocks := make([]any, len(firstResp.Content))
	for i, b := range firstResp.Content {
		blocks[i] = b
	}
	retryMessages := append(append([]Message{}, messages...),
		Message{Role: "assistant", Content: blocks},
		Message{Role: "user", Content: retryNoticeText},
	)

	req := Request{
		Model:      c.Model,
		MaxTokens:  c.MaxTokens,
		System:     system,
		Messages:   retryMessages,
		Tools:      tools,
		ToolChoice: ToolChoice{Type: "any"},
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return ToolUse{}, err
	}

	if b, ok := FirstToolUse(resp.Content); ok {
		return ToolUse{ID: b.ID, Name: b.Name, Input: b.Input}, nil
	}
	if text, ok := FirstText(resp.Content); ok {
		return synthesizeChat(text), nil
	}
	return ToolUse{}, ErrTooManyToolUses
}
