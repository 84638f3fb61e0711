package blinktree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/blinktree/fixedlist"
)

func makeSplitTree(t *testing.T) *Tree[int, int] {
	t.Helper()
	tree := makeIntTree(t, 2, 2)
	for k := 1; k <= 12; k++ {
		tree.Insert(k*10, k)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("expected valid tree, got %v", err)
	}
	if tree.Height() < 2 {
		t.Fatalf("expected tree of height >= 2, is %d", tree.Height())
	}
	return tree
}

func expectCorruption(t *testing.T, tree *Tree[int, int], fragment string) {
	t.Helper()
	err := tree.Check()
	if err == nil {
		t.Fatalf("expected invariant error containing %q", fragment)
	}
	if !errors.Is(err, ErrCorruptTree) {
		t.Fatalf("expected ErrCorruptTree, got %v", err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// corrupt publishes a modified copy of n's content.
func corrupt(n *node[int, int], modify func(c *content[int, int])) {
	c := n.load().clone()
	modify(c)
	n.publish(c)
}

func TestCheckDetectsUnorderedKeys(t *testing.T) {
	tree := makeSplitTree(t)
	leaf := tree.leftmost(0).load().link
	corrupt(leaf, func(c *content[int, int]) {
		c.keys = fixedlist.From(2, c.keys.Last(), c.keys.At(0)-1)
		c.values = fixedlist.From(2, 0, 0)
	})
	expectCorruption(t, tree, "not strictly ascending")
}

func TestCheckDetectsChildCountDrift(t *testing.T) {
	tree := makeSplitTree(t)
	inner := tree.leftmost(1)
	corrupt(inner, func(c *content[int, int]) {
		c.children.Truncate(c.children.Len() - 1)
	})
	expectCorruption(t, tree, "children")
}

func TestCheckDetectsCapacityOverflow(t *testing.T) {
	tree := makeSplitTree(t)
	leaf := tree.leftmost(0)
	corrupt(leaf, func(c *content[int, int]) {
		first := c.keys.At(0)
		c.keys = fixedlist.From(2, first-3, first-2, first-1)
		c.values = fixedlist.From(2, 0, 0, 0)
	})
	expectCorruption(t, tree, "exceeds capacity")
}

func TestCheckDetectsKeyAboveHighKey(t *testing.T) {
	tree := makeSplitTree(t)
	leaf := tree.leftmost(0)
	corrupt(leaf, func(c *content[int, int]) {
		c.highKey = c.keys.At(0) - 1
	})
	expectCorruption(t, tree, "exceeds high key")
}

func TestCheckDetectsBrokenRightLink(t *testing.T) {
	tree := makeSplitTree(t)
	leaf := tree.leftmost(0)
	second := leaf.load().link
	corrupt(leaf, func(c *content[int, int]) {
		c.link = second.load().link // skip one leaf
	})
	expectCorruption(t, tree, "right links do not match")
}

func TestCheckDetectsMissingHighKey(t *testing.T) {
	tree := makeSplitTree(t)
	leaf := tree.leftmost(0)
	corrupt(leaf, func(c *content[int, int]) {
		c.bounded = false
	})
	expectCorruption(t, tree, "high key present=false")
}

func TestCheckDetectsSeparatorMismatch(t *testing.T) {
	tree := makeSplitTree(t)
	inner := tree.leftmost(1)
	corrupt(inner, func(c *content[int, int]) {
		keys := c.keys.Slice(0, c.keys.Len())
		keys[0]++
		c.keys = fixedlist.From(c.keys.Cap(), keys...)
	})
	expectCorruption(t, tree, "does not match separator")
}

func TestCheckDetectsHeightMismatch(t *testing.T) {
	tree := makeSplitTree(t)
	tree.height.Add(1)
	expectCorruption(t, tree, "height mismatch")
}
