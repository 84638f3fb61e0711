package blinktree

import (
	"cmp"
	"fmt"
)

// Config configures a B-link tree.
type Config[K any] struct {
	// InternalCapacity is the maximum number of keys of an internal node.
	// An internal node holds one more child than keys.
	InternalCapacity int
	// LeafCapacity is the maximum number of keys of a leaf node.
	LeafCapacity int
	// Compare defines the total order on keys. It returns a negative number
	// if a < b, zero if a == b and a positive number if a > b.
	Compare func(a, b K) int
}

// OrderedConfig returns a configuration for keys with a natural ordering.
func OrderedConfig[K cmp.Ordered](internalCapacity, leafCapacity int) Config[K] {
	return Config[K]{
		InternalCapacity: internalCapacity,
		LeafCapacity:     leafCapacity,
		Compare:          cmp.Compare[K],
	}
}

func (cfg Config[K]) validate() error {
	if cfg.InternalCapacity < 1 {
		return fmt.Errorf("%w: internal node capacity must be >= 1, is %d",
			ErrInvalidConfig, cfg.InternalCapacity)
	}
	if cfg.LeafCapacity < 1 {
		return fmt.Errorf("%w: leaf node capacity must be >= 1, is %d",
			ErrInvalidConfig, cfg.LeafCapacity)
	}
	if cfg.Compare == nil {
		return fmt.Errorf("%w: key comparison function is required", ErrInvalidConfig)
	}
	return nil
}
