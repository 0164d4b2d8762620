package elk

import "errors"

var (
	// ErrBadFrame indicates bytes that are not a valid command frame
	ErrBadFrame = errors.New("invalid frame")

	// ErrLinkClosed indicates a write on a closed link
	ErrLinkClosed = errors.New("link closed")
)
