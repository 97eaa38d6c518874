package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", "test-model")
	c.Endpoint = srv.URL
	return c
}

func writeResponse(t *testing.T, w http.ResponseWriter, resp Response) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestCallToolSingleToolUse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(t, w, Response{
			Content: []Block{{Type: BlockToolUse, ID: "tu_1", Name: ToolCommand, Input: json.RawMessage(`{"command":"ls","explanation":"list files"}`)}},
		})
	})
	tu, err := c.CallTool(context.Background(), "sys", nil, Tools())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tu.Name != ToolCommand || tu.ID != "tu_1" {
		t.Errorf("got %+v", tu)
	}
}

func TestCallToolZeroToolUsesSynthesizesChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(t, w, Response{Content: []Block{{Type: BlockText, Text: "just a reply"}}})
	})
	tu, err := c.CallTool(context.Background(), "sys", nil, Tools())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tu.Name != ToolChat {
		t.Fatalf("expected synthesized chat, got %+v", tu)
	}
	var input struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(tu.Input, &input); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if input.Response != "just a reply" {
		t.Errorf("response = %q", input.Response)
	}
}

func TestCallToolMultipleToolUsesRetriesOnce(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeResponse(t, w, Response{Content: []Block{
				{Type: BlockToolUse, ID: "a", Name: ToolCommand, Input: json.RawMessage(`{}`)},
				{Type: BlockToolUse, ID: "b", Name: ToolChat, Input: json.RawMessage(`{}`)},
			}})
			return
		}
		writeResponse(t, w, Response{Content: []Block{
			{Type: BlockToolUse, ID: "c", Name: ToolChat, Input: json.RawMessage(`{"response":"ok"}`)},
		}})
	})
	tu, err := c.CallTool(context.Background(), "sys", nil, Tools())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry (2 calls total), got %d", calls)
	}
	if tu.ID != "c" {
		t.Errorf("expected retry's first tool-use, got %+v", tu)
	}
}

func TestCallToolAPIErrorMessageReportedVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeResponse(t, w, Response{Error: &APIError{Type: "invalid_request_error", Message: "bad model name"}})
	})
	_, err := c.CallTool(context.Background(), "sys", nil, Tools())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "bad model name" {
		t.Errorf("error = %q, want verbatim API message", err.Error())
	}
}

func TestCallToolEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := c.CallTool(context.Background(), "sys", nil, Tools())
	if err != ErrEmptyBody {
		t.Fatalf("err = %v, want ErrEmptyBody", err)
	}
}

func TestClampScrollbackLines(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 50}, {-5, 50}, {1, 1}, {1000, 1000}, {1001, 1000}, {500, 500},
	}
	for _, c := range cases {
		if got := ClampScrollbackLines(c.in); got != c.want {
			t.Errorf("ClampScrollbackLines(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
