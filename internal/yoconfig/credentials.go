package yoconfig

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Canonical credential diagnostics.
var (
	ErrCredentialsMissing = errors.New("Create ~/.yoshkey with your Anthropic API key (mode 0600)")
	ErrCredentialsEmpty   = errors.New("~/.yoshkey is empty")
)

// WrongModeError reports the credential file's actual permission bits.
type WrongModeError struct {
	Mode os.FileMode
}

func (e *WrongModeError) Error() string {
	return fmt.Sprintf("~/.yoshkey must have mode 0600 (current: %04o)", e.Mode.Perm())
}

const requiredMode = 0o600

// LoadAPIKey resolves $HOME (falling back to the system user database),
// reads $HOME/.yoshkey, verifies its mode is exactly 0600, and returns the
// first line stripped of surrounding whitespace. No other locations are
// consulted.
func LoadAPIKey() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", ErrCredentialsMissing
	}

	path := filepath.Join(home, ".yoshkey")
	info, err := os.Stat(path)
	if err != nil {
		return "", ErrCredentialsMissing
	}

	if info.Mode().Perm() != requiredMode {
		return "", &WrongModeError{Mode: info.Mode()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ErrCredentialsMissing
	}

	lines := strings.SplitN(string(data), "\n", 2)
	key := strings.TrimSpace(lines[0])
	if key == "" {
		return "", ErrCredentialsEmpty
	}
	return key, nil
}

// homeDir resolves $HOME, falling back to the system user database — the Go
// equivalent of the original's getenv("HOME") then getpwuid(getuid()).
func homeDir() (string, error) {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h, nil
	}
	u, err := user.Current()
	if err != nil || u.HomeDir == "" {
		return "", errors.New("cannot determine home directory")
	}
	return u.HomeDir, nil
}
