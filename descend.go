package blinktree

import (
	"runtime"
	"time"
)

const (
	// maxRetries bounds the waits of a writer for a pending root growth.
	maxRetries = 10000
	// spinRetries is the number of waits which only yield the processor;
	// later waits sleep with exponential backoff.
	spinRetries = 64
	maxBackoff  = time.Millisecond
)

// scanNode decides where the search for key continues after n, without
// locking n. It returns n's right sibling (moved == true) if key is beyond
// n's high key, n itself if n is a leaf covering key, and otherwise the
// child of n covering key.
func (t *Tree[K, V]) scanNode(key K, n *node[K, V]) (next *node[K, V], moved bool) {
	c := n.load()
	if !c.covers(key, t.cfg.Compare) {
		assert(c.link != nil, "bounded node has no right link")
		return c.link, true
	}
	if n.isLeaf() {
		return n, false
	}
	i, _ := c.search(key, t.cfg.Compare)
	return c.children.At(i), false
}

// descend walks from the root down to the leaf level without locking.
// It returns the leaf reached and the internal nodes a child pointer has
// been taken from, topmost first.
func (t *Tree[K, V]) descend(key K) (*node[K, V], []*node[K, V]) {
	n := t.root.Load()
	ancestors := make([]*node[K, V], 0, n.level)
	for !n.isLeaf() {
		next, moved := t.scanNode(key, n)
		if !moved {
			ancestors = append(ancestors, n)
		}
		n = next
	}
	return n, ancestors
}

// moveRight follows right links from n, which the caller must have locked,
// until it reaches the node covering key. Locks are coupled: the next node
// is locked before the current one is released. The node returned is locked.
func (t *Tree[K, V]) moveRight(key K, n *node[K, V]) *node[K, V] {
	for {
		next, moved := t.scanNode(key, n)
		if !moved {
			return n
		}
		next.lock()
		n.unlock()
		n = next
		t.stats.rightMoves.Add(1)
	}
}

// split splits node n, which the caller has locked, with overflowed content c.
// The new right sibling is fully built before n's content linking to it is
// published. n remains locked.
func (t *Tree[K, V]) split(n *node[K, V], c *content[K, V]) (sep K, sibling *node[K, V]) {
	sep, sc := splitContent(c, n.isLeaf())
	sibling = newNode(n.level, sc)
	c.link = sibling
	n.publish(c)
	if n.isLeaf() {
		t.stats.leafSplits.Add(1)
	} else {
		t.stats.internalSplits.Add(1)
	}
	T().Debugf("blinktree: split node at level %d, separator %v", n.level, sep)
	return sep, sibling
}

// postSeparator inserts separator sep with right child right into the parent
// level of left, splitting upwards as long as parents overflow. left has been
// split into left and right and is locked by the caller; postSeparator
// releases all locks before returning.
//
// ancestors is the stack of nodes recorded during descent. If it runs empty,
// either left is the root and the tree grows, or the tree has grown
// concurrently and the parent is searched for from the new root.
func (t *Tree[K, V]) postSeparator(left, right *node[K, V], sep K, ancestors []*node[K, V]) {
	for {
		var parent *node[K, V]
		if len(ancestors) > 0 {
			parent = ancestors[len(ancestors)-1]
			ancestors = ancestors[:len(ancestors)-1]
			parent.lock()
			parent = t.moveRight(sep, parent)
		} else if t.growRoot(left, right, sep) {
			left.unlock()
			return
		} else {
			parent = t.lockParent(left.level+1, sep)
		}
		left.unlock()
		c := parent.load().clone()
		i, found := c.search(sep, t.cfg.Compare)
		assert(!found, "separator key already present in parent")
		c.keys.InsertAt(i, sep)
		if overflowed := c.children.InsertAt(i+1, right); !overflowed {
			parent.publish(c)
			parent.unlock()
			return
		}
		sep, right = t.split(parent, c)
		left = parent
	}
}

// growRoot installs a new root above left and right, if left is the current
// root. The caller holds the lock of left, therefore no other writer can grow
// the tree from left. Only the writer winning the root swap increments the
// height.
func (t *Tree[K, V]) growRoot(left, right *node[K, V], sep K) bool {
	if t.root.Load() != left {
		// left was the root when our descent started
		t.stats.rootRaces.Add(1)
		T().Debugf("blinktree: root above level %d replaced concurrently", left.level)
		return false
	}
	root := newNode(left.level+1, rootContent(t.cfg.InternalCapacity, sep, left, right))
	swapped := t.root.CompareAndSwap(left, root)
	assert(swapped, "root replaced while its lock was held")
	t.height.Add(1)
	t.stats.rootGrowths.Add(1)
	T().Debugf("blinktree: new root at level %d, separator %v", root.level, sep)
	return true
}

// lockParent finds and locks the node at the given level which covers key,
// searching from the current root. It is used when a writer has split a node
// without having a recorded ancestor for it. If the tree is not yet high
// enough, some other writer has split the root and is about to install a
// new one; lockParent waits for it to do so.
func (t *Tree[K, V]) lockParent(level int, key K) *node[K, V] {
	backoff := time.Microsecond
	for attempt := 0; ; attempt++ {
		n := t.root.Load()
		if n.level >= level {
			for n.level > level {
				n, _ = t.scanNode(key, n)
			}
			n.lock()
			return t.moveRight(key, n)
		}
		t.stats.retries.Add(1)
		assert(attempt < maxRetries, "pending root growth did not complete")
		if attempt < spinRetries {
			runtime.Gosched()
			continue
		}
		time.Sleep(backoff)
		backoff = min(2*backoff, maxBackoff)
	}
}
