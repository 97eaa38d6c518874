package activitylog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func TestTurnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(true, path)
	defer l.Close()

	l.TurnStart("yo list py files")

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var e struct {
		Event string `json:"event"`
		Query string `json:"query"`
		Ts    string `json:"ts"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Event != "turn_start" || e.Query != "yo list py files" {
		t.Errorf("got %+v", e)
	}
	if e.Ts == "" {
		t.Error("expected ts field to be present")
	}
}

func TestDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(true, path)
	defer l.Close()

	l.Dispatch("command", "prefill")

	lines := readLines(t, path)
	var e struct {
		Event string `json:"event"`
		Tool  string `json:"tool"`
	}
	json.Unmarshal([]byte(lines[0]), &e)
	if e.Event != "dispatch" || e.Tool != "command" {
		t.Errorf("got %+v", e)
	}
}

func TestTransportError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(true, path)
	defer l.Close()

	l.TransportError(errors.New("connection refused"))

	lines := readLines(t, path)
	var e struct {
		Event string `json:"event"`
		Error string `json:"error"`
	}
	json.Unmarshal([]byte(lines[0]), &e)
	if e.Event != "transport_error" || e.Error != "connection refused" {
		t.Errorf("got %+v", e)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(false, path)
	defer l.Close()

	l.TurnStart("yo hello")
	l.Dispatch("chat", "reply")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be created when disabled")
	}
}

func TestNopLoggerIsNoop(t *testing.T) {
	l := Nop()
	l.TurnStart("yo hello")
	l.Dispatch("chat", "reply")
	l.TransportError(errors.New("boom"))
	l.Continuation("scrollback", true)
	l.ExplanationRepair("tu1")
	l.Close()
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.TurnStart("yo hello")
	l.Close()
}

func TestMultipleEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(true, path)
	defer l.Close()

	l.TurnStart("yo one")
	l.Dispatch("command", "prefill")
	l.Continuation("docs", true)

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}
