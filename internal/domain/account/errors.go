package account

import "errors"

var (
	// ErrInvalidKind indicates an unknown account kind.
	ErrInvalidKind = errors.New("invalid account kind")
	// ErrInvalidOwner indicates an empty owner id or one containing a NUL byte.
	ErrInvalidOwner = errors.New("invalid owner id")
)
