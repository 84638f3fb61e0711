package blinktree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("blinktree: invalid configuration")
	// ErrCorruptTree signals a violated structural invariant, as detected by Check.
	ErrCorruptTree = errors.New("blinktree: structural invariant violated")
)
