package blinktree

import "fmt"

// Check validates structural tree invariants:
//
//   - keys within every node are strictly ascending and do not exceed the
//     node capacity of their level,
//   - internal nodes hold exactly one child more than keys,
//   - a node has a high key if and only if it has a right link, and the high
//     key bounds the node's keys from above and the right sibling's keys
//     from below,
//   - the right links of a level visit exactly the children of the level
//     above, in order, and every child's high key equals the separator
//     following it in its parent,
//   - the root is at level Height().
//
// Check must only be called on a quiescent tree, i.e. with no insert in flight.
// This checker is intentionally strict and is meant to be used in tests and
// stress runs.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	root := t.root.Load()
	if root == nil {
		return fmt.Errorf("%w: tree has no root", ErrCorruptTree)
	}
	if root.level != t.Height() {
		return fmt.Errorf("%w: height mismatch (root level %d != height %d)",
			ErrCorruptTree, root.level, t.Height())
	}
	if rc := root.load(); rc.bounded || rc.link != nil {
		return fmt.Errorf("%w: root has a high key or right link", ErrCorruptTree)
	}
	for level := 0; level <= root.level; level++ {
		if err := t.checkLevel(t.leftmost(level)); err != nil {
			return err
		}
	}
	return nil
}

// bound is the expected high key of a child node.
type bound[K any] struct {
	key     K
	bounded bool
}

// checkLevel validates the nodes on the right chain starting at first and,
// for internal levels, the chain of their children.
func (t *Tree[K, V]) checkLevel(first *node[K, V]) error {
	compare := t.cfg.Compare
	var prev *content[K, V]
	var children []*node[K, V]
	var bounds []bound[K]
	for n := first; n != nil; {
		c := n.load()
		if err := t.checkNode(n, c); err != nil {
			return err
		}
		if prev != nil {
			if c.keys.Len() > 0 && compare(prev.highKey, c.keys.At(0)) >= 0 {
				return fmt.Errorf("%w: level %d: key %v not above left sibling's high key %v",
					ErrCorruptTree, n.level, c.keys.At(0), prev.highKey)
			}
			if c.bounded && compare(prev.highKey, c.highKey) >= 0 {
				return fmt.Errorf("%w: level %d: high keys not ascending (%v, %v)",
					ErrCorruptTree, n.level, prev.highKey, c.highKey)
			}
		}
		if !n.isLeaf() {
			for i := 0; i < c.children.Len(); i++ {
				children = append(children, c.children.At(i))
				if i < c.keys.Len() {
					bounds = append(bounds, bound[K]{key: c.keys.At(i), bounded: true})
				} else {
					bounds = append(bounds, bound[K]{key: c.highKey, bounded: c.bounded})
				}
			}
		}
		prev = c
		n = c.link
	}
	if len(children) == 0 {
		return nil
	}
	i := 0
	for n := children[0]; n != nil; i++ {
		if i >= len(children) || children[i] != n {
			return fmt.Errorf("%w: level %d: right links do not match child pointers of parent level (at child %d)",
				ErrCorruptTree, n.level, i)
		}
		c := n.load()
		if c.bounded != bounds[i].bounded ||
			(c.bounded && compare(c.highKey, bounds[i].key) != 0) {
			return fmt.Errorf("%w: level %d: high key of child %d does not match separator in parent",
				ErrCorruptTree, n.level, i)
		}
		n = c.link
	}
	if i != len(children) {
		return fmt.Errorf("%w: level %d: %d nodes linked, but parents hold %d children",
			ErrCorruptTree, first.level-1, i, len(children))
	}
	return nil
}

func (t *Tree[K, V]) checkNode(n *node[K, V], c *content[K, V]) error {
	if c == nil || c.keys == nil {
		return fmt.Errorf("%w: level %d: node without content", ErrCorruptTree, n.level)
	}
	capacity := t.cfg.InternalCapacity
	if n.isLeaf() {
		capacity = t.cfg.LeafCapacity
		if c.values == nil || c.children != nil {
			return fmt.Errorf("%w: leaf node with internal payload", ErrCorruptTree)
		}
		if c.values.Len() != c.keys.Len() {
			return fmt.Errorf("%w: leaf holds %d keys but %d values",
				ErrCorruptTree, c.keys.Len(), c.values.Len())
		}
	} else {
		if c.children == nil || c.values != nil {
			return fmt.Errorf("%w: level %d: internal node with leaf payload", ErrCorruptTree, n.level)
		}
		if c.children.Len() != c.keys.Len()+1 {
			return fmt.Errorf("%w: level %d: internal node holds %d keys but %d children",
				ErrCorruptTree, n.level, c.keys.Len(), c.children.Len())
		}
		for i := 0; i < c.children.Len(); i++ {
			child := c.children.At(i)
			if child == nil || child.level != n.level-1 {
				return fmt.Errorf("%w: level %d: child %d missing or at wrong level",
					ErrCorruptTree, n.level, i)
			}
		}
	}
	if c.keys.Len() > capacity {
		return fmt.Errorf("%w: level %d: key count %d exceeds capacity %d",
			ErrCorruptTree, n.level, c.keys.Len(), capacity)
	}
	for i := 1; i < c.keys.Len(); i++ {
		if t.cfg.Compare(c.keys.At(i-1), c.keys.At(i)) >= 0 {
			return fmt.Errorf("%w: level %d: keys not strictly ascending at index %d",
				ErrCorruptTree, n.level, i)
		}
	}
	if c.bounded != (c.link != nil) {
		return fmt.Errorf("%w: level %d: high key present=%v, but right link present=%v",
			ErrCorruptTree, n.level, c.bounded, c.link != nil)
	}
	if c.link != nil && c.link.level != n.level {
		return fmt.Errorf("%w: level %d: right link to level %d", ErrCorruptTree, n.level, c.link.level)
	}
	if c.bounded && c.keys.Len() > 0 && t.cfg.Compare(c.keys.Last(), c.highKey) > 0 {
		return fmt.Errorf("%w: level %d: key %v exceeds high key %v",
			ErrCorruptTree, n.level, c.keys.Last(), c.highKey)
	}
	return nil
}
