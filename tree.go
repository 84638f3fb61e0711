package blinktree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"cmp"
	"sync/atomic"
)

// Tree is an ordered index mapping unique keys K to values V, with support
// for concurrent insertion.
//
// A tree has to be created by New or NewWithConfig. Insert may be called from
// any number of goroutines. All other methods except Height and Stats expect
// the tree to be quiescent, i.e. no insert to be in flight.
type Tree[K, V any] struct {
	cfg    Config[K]
	root   atomic.Pointer[node[K, V]]
	height atomic.Int32 // number of internal levels
	stats  counters
}

// New creates an empty tree for naturally ordered keys. internalCapacity is
// the maximum number of keys in an internal node, leafCapacity the maximum
// number of keys in a leaf.
func New[K cmp.Ordered, V any](internalCapacity, leafCapacity int) (*Tree[K, V], error) {
	return NewWithConfig[K, V](OrderedConfig[K](internalCapacity, leafCapacity))
}

// NewWithConfig creates an empty tree with a validated configuration.
func NewWithConfig[K, V any](cfg Config[K]) (*Tree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Tree[K, V]{cfg: cfg}
	t.root.Store(newNode(0, emptyLeaf[K, V](cfg.LeafCapacity)))
	return t, nil
}

// Config returns a copy of the tree configuration.
func (t *Tree[K, V]) Config() Config[K] {
	return t.cfg
}

// Height returns the number of internal levels of t. A tree consisting of
// a single leaf has height 0.
func (t *Tree[K, V]) Height() int {
	return int(t.height.Load())
}

// Clear resets t to a single empty leaf. Clear must not be called
// concurrently with any other operation on t.
func (t *Tree[K, V]) Clear() {
	t.root.Store(newNode(0, emptyLeaf[K, V](t.cfg.LeafCapacity)))
	t.height.Store(0)
	t.stats.reset()
}

// Insert adds key with an associated value to t. It returns false, without
// changing t, if key is already present.
//
// Insert is safe for concurrent use.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	leaf, ancestors := t.descend(key)
	leaf.lock()
	leaf = t.moveRight(key, leaf)
	c := leaf.load()
	i, found := c.search(key, t.cfg.Compare)
	if found {
		leaf.unlock()
		return false
	}
	next := c.clone()
	next.keys.InsertAt(i, key)
	if overflowed := next.values.InsertAt(i, value); !overflowed {
		leaf.publish(next)
		leaf.unlock()
		return true
	}
	sep, sibling := t.split(leaf, next)
	t.postSeparator(leaf, sibling, sep, ancestors)
	return true
}
