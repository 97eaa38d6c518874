// Package yoconfig centralizes the ambient configuration the assistant
// reloads every turn: environment variables, the credential file, the
// host-OS hint, and output coloring.
package yoconfig

import (
	"os"
	"strconv"

	"github.com/pizlonator/yo/internal/memory"
)

// DefaultModel is used when YO_MODEL is unset.
const DefaultModel = "claude-sonnet-4-20250514"

const (
	envModel             = "YO_MODEL"
	envHistoryLimit      = "YO_HISTORY_LIMIT"
	envTokenBudget       = "YO_TOKEN_BUDGET"
	envScrollbackBytes   = "YO_SCROLLBACK_BYTES"
	envScrollbackLines   = "YO_SCROLLBACK_LINES"
	envScrollbackEnabled = "YO_SCROLLBACK_ENABLED"
	envChatColor         = "YO_CHAT_COLOR"
)

// DefaultChatColor is the ANSI SGR prefix used when YO_CHAT_COLOR is unset:
// italic cyan.
const DefaultChatColor = "\x1b[3;36m"

const (
	defaultScrollbackBytes = 64 * 1024
	defaultScrollbackLines = 1000
)

// Settings is the full set of env-reloadable session flags.
type Settings struct {
	Model             string
	Limits            memory.Limits
	ScrollbackBytes   int
	ScrollbackLines   int
	ScrollbackEnabled bool
	ChatColor         string
}

// Reload reads all recognized environment variables fresh, applying
// defaults and lower bounds. It is called at the start of every
// user-initiated turn and when a control.Session is created.
func Reload() Settings {
	s := Settings{
		Model:             envOr(envModel, DefaultModel),
		ChatColor:         envOr(envChatColor, DefaultChatColor),
		ScrollbackBytes:   envIntOr(envScrollbackBytes, defaultScrollbackBytes, 1),
		ScrollbackLines:   envIntOr(envScrollbackLines, defaultScrollbackLines, 1),
		ScrollbackEnabled: os.Getenv(envScrollbackEnabled) != "0",
	}
	s.Limits = memory.Limits{
		HistoryLimit: envIntOr(envHistoryLimit, memory.DefaultLimits.HistoryLimit, 1),
		TokenBudget:  envIntOr(envTokenBudget, memory.DefaultLimits.TokenBudget, 100),
	}
	return s
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envIntOr parses key as an integer, falling back to def when unset, empty,
// unparseable, or below min (an unparseable value becomes 0 under atoi,
// which already fails the min check).
func envIntOr(key string, def, min int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return def
	}
	return n
}
