package yoconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeKeyFile(t *testing.T, dir, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, ".yoshkey")
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	return path
}

func withHome(t *testing.T, dir string) {
	t.Helper()
	old, had := os.LookupEnv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() {
		if had {
			os.Setenv("HOME", old)
		} else {
			os.Unsetenv("HOME")
		}
	})
}

func TestLoadAPIKeyMissingFile(t *testing.T) {
	withHome(t, t.TempDir())
	_, err := LoadAPIKey()
	if !errors.Is(err, ErrCredentialsMissing) {
		t.Fatalf("err = %v, want ErrCredentialsMissing", err)
	}
}

func TestLoadAPIKeyWrongMode(t *testing.T) {
	dir := t.TempDir()
	withHome(t, dir)
	writeKeyFile(t, dir, "sk-ant-abc123\n", 0o644)

	_, err := LoadAPIKey()
	var wm *WrongModeError
	if !errors.As(err, &wm) {
		t.Fatalf("err = %v, want *WrongModeError", err)
	}
	if wm.Error() != "~/.yoshkey must have mode 0600 (current: 0644)" {
		t.Errorf("message = %q", wm.Error())
	}
}

func TestLoadAPIKeyEmpty(t *testing.T) {
	dir := t.TempDir()
	withHome(t, dir)
	writeKeyFile(t, dir, "\n", 0o600)

	_, err := LoadAPIKey()
	if !errors.Is(err, ErrCredentialsEmpty) {
		t.Fatalf("err = %v, want ErrCredentialsEmpty", err)
	}
}

func TestLoadAPIKeyTrimsWhitespaceAndTakesFirstLine(t *testing.T) {
	dir := t.TempDir()
	withHome(t, dir)
	writeKeyFile(t, dir, "  sk-ant-abc123  \nsecond line\n", 0o600)

	key, err := LoadAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "sk-ant-abc123" {
		t.Errorf("key = %q", key)
	}
}
