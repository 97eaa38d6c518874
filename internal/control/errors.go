package control

import (
	"errors"

	"github.com/pizlonator/yo/internal/anthropic"
)

// Canonical user-visible diagnostics.
const (
	msgCancelled           = "Cancelled"
	msgContextReset        = "Context reset"
	msgTooManyScrollback   = "Too many scrollback requests"
	msgUnknownResponseType = "Unknown response type from Claude"
)

// ErrTooManyScrollback is returned by the sub-request loop when a fourth
// scrollback/docs reply arrives before the model settles on a final
// answer.
var ErrTooManyScrollback = errors.New(msgTooManyScrollback)

// errUnknownResponseType is returned by dispatch when the final tool
// name is none of command/chat.
var errUnknownResponseType = errors.New(msgUnknownResponseType)

// errorMessage maps a turn-ending error to one of the canonical
// user-visible strings, falling back to the error's own text for the
// transport/protocol classes that don't have a fixed wording.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, anthropic.ErrCancelled):
		return msgCancelled
	default:
		return err.Error()
	}
}
