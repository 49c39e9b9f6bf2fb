package neon

import "errors"

var (
	// ErrNotBound is returned when input is dispatched to an element without
	// a (bind) attribute, or to a key no element is bound to.
	ErrNotBound = errors.New("element is not bound")

	// ErrInvalidMessage is returned for preview messages that cannot be decoded
	// or name an unknown action.
	ErrInvalidMessage = errors.New("invalid message")
)
