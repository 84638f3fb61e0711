package blinktree

import (
	"fmt"
	"strings"
)

// leftmost returns the leftmost node of the given level, or nil if the tree
// is not that high.
func (t *Tree[K, V]) leftmost(level int) *node[K, V] {
	n := t.root.Load()
	if n.level < level {
		return nil
	}
	for n.level > level {
		n = n.load().children.At(0)
	}
	return n
}

// ForEach walks the leaf level from left to right and calls fn for every
// key/value pair, in ascending key order.
//
// Iteration stops early if fn returns false. ForEach is meant for quiescent
// trees; concurrent inserts may or may not be visible to it.
func (t *Tree[K, V]) ForEach(fn func(key K, value V) bool) {
	if t == nil || fn == nil {
		return
	}
	for n := t.leftmost(0); n != nil; {
		c := n.load()
		for i := 0; i < c.keys.Len(); i++ {
			if !fn(c.keys.At(i), c.values.At(i)) {
				return
			}
		}
		n = c.link
	}
}

// Keys returns all keys of t in ascending order.
func (t *Tree[K, V]) Keys() []K {
	var keys []K
	t.ForEach(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the number of keys in t.
func (t *Tree[K, V]) Len() int {
	var cnt int
	t.ForEach(func(K, V) bool {
		cnt++
		return true
	})
	return cnt
}

// String lists the keys of t in ascending order, e.g. “[1, 2, 3]”.
func (t *Tree[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	t.ForEach(func(k K, _ V) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprint(&b, k)
		return true
	})
	b.WriteByte(']')
	return b.String()
}
