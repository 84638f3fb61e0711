package blinktree

import (
	"sync"
	"sync/atomic"

	"github.com/npillmayer/blinktree/fixedlist"
)

// node is a tree node, either a leaf (level 0) or an internal node
// (level > 0).
//
// The node's content is an immutable snapshot, published through an atomic
// pointer. Readers load the snapshot without locking. Writers have to hold mu,
// build a new snapshot and store it; a snapshot must never be modified once
// it has been published.
type node[K, V any] struct {
	mu    sync.Mutex
	level int
	state atomic.Pointer[content[K, V]]
}

// content is a snapshot of a node's keys, payload, high key and right link.
type content[K, V any] struct {
	keys *fixedlist.List[K]
	// children is set for internal nodes only, with
	// children.Len() == keys.Len()+1.
	children *fixedlist.List[*node[K, V]]
	// values is set for leaf nodes only, parallel to keys.
	values *fixedlist.List[V]
	// highKey is the inclusive upper bound of keys reachable through this
	// node. It is valid only if bounded is true, which is the case for
	// every node except the rightmost one of a level.
	highKey K
	bounded bool
	// link is the right sibling on the same level. It is nil if and only if
	// the node is the rightmost one of its level.
	link *node[K, V]
}

func newNode[K, V any](level int, c *content[K, V]) *node[K, V] {
	n := &node[K, V]{level: level}
	n.state.Store(c)
	return n
}

func (n *node[K, V]) isLeaf() bool {
	return n.level == 0
}

// load returns the currently published content of n.
func (n *node[K, V]) load() *content[K, V] {
	return n.state.Load()
}

// publish installs c as the content of n. The caller must hold n.mu.
func (n *node[K, V]) publish(c *content[K, V]) {
	n.state.Store(c)
}

func (n *node[K, V]) lock() {
	n.mu.Lock()
}

func (n *node[K, V]) unlock() {
	n.mu.Unlock()
}

// emptyLeaf creates content for a leaf without keys, which is the rightmost
// leaf of the tree.
func emptyLeaf[K, V any](capacity int) *content[K, V] {
	return &content[K, V]{
		keys:   fixedlist.New[K](capacity),
		values: fixedlist.New[V](capacity),
	}
}

// rootContent creates the content of a new root with exactly two children.
func rootContent[K, V any](capacity int, sep K, left, right *node[K, V]) *content[K, V] {
	return &content[K, V]{
		keys:     fixedlist.From(capacity, sep),
		children: fixedlist.From(capacity+1, left, right),
	}
}

// clone creates a private copy of c to be modified by a lock holder.
func (c *content[K, V]) clone() *content[K, V] {
	return &content[K, V]{
		keys:     c.keys.Clone(),
		children: c.children.Clone(),
		values:   c.values.Clone(),
		highKey:  c.highKey,
		bounded:  c.bounded,
		link:     c.link,
	}
}

// search returns the number of keys in c less than key, and whether
// key is present in c.
func (c *content[K, V]) search(key K, compare func(a, b K) int) (int, bool) {
	i := c.keys.Search(func(k K) bool {
		return compare(k, key) >= 0
	})
	return i, i < c.keys.Len() && compare(c.keys.At(i), key) == 0
}

// covers is false if key is beyond the high key of c, i.e. key has to be
// searched for to the right of c.
func (c *content[K, V]) covers(key K, compare func(a, b K) int) bool {
	return !c.bounded || compare(key, c.highKey) <= 0
}

// splitContent splits overflowed content c of a node at the given level.
// c keeps the lower half. The upper half is returned as the content of a new
// right sibling, together with the separator key to post to the parent.
//
// For leaves, the separator is the largest key remaining in c. For internal
// nodes, the middle key is removed from c and becomes the separator.
// In both cases the separator becomes the new high key of c, while the
// sibling inherits the former high key and right link of c.
// The caller links c to the sibling.
func splitContent[K, V any](c *content[K, V], leaf bool) (sep K, sibling *content[K, V]) {
	total := c.keys.Len()
	assert(total >= 2, "splitContent called on node with less than 2 keys")
	half := total / 2
	sibling = &content[K, V]{
		highKey: c.highKey,
		bounded: c.bounded,
		link:    c.link,
	}
	if leaf {
		sep = c.keys.At(half - 1)
		sibling.keys = fixedlist.From(c.keys.Cap(), c.keys.Slice(half, total)...)
		sibling.values = fixedlist.From(c.values.Cap(), c.values.Slice(half, total)...)
		c.keys.Truncate(half)
		c.values.Truncate(half)
	} else {
		sep = c.keys.At(half)
		sibling.keys = fixedlist.From(c.keys.Cap(), c.keys.Slice(half+1, total)...)
		sibling.children = fixedlist.From(c.children.Cap(), c.children.Slice(half+1, total+1)...)
		c.keys.Truncate(half)
		c.children.Truncate(half + 1)
	}
	c.highKey, c.bounded = sep, true
	return sep, sibling
}
