package yoconfig

import (
	"github.com/muesli/termenv"
)

const ansiReset = "\x1b[0m"

// Colorize wraps text in the configured chat color prefix and a trailing
// reset, unless the output profile can't render color (NO_COLOR, a dumb
// terminal, non-tty stdout), in which case text is returned unchanged.
func Colorize(text, prefix string) string {
	if termenv.ColorProfile() == termenv.Ascii {
		return text
	}
	return prefix + text + ansiReset
}
