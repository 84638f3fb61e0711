package blinktree

import "sync/atomic"

// Stats holds diagnostic counters of a tree, accumulated since creation or
// the last call to Clear.
type Stats struct {
	LeafSplits     uint64 // number of leaf splits
	InternalSplits uint64 // number of internal node splits
	RootGrowths    uint64 // number of new roots installed
	RootRaces      uint64 // splits of a former root, finding the tree grown by another writer
	RightMoves     uint64 // right links followed while holding locks
	Retries        uint64 // waits for a pending root growth
}

type counters struct {
	leafSplits     atomic.Uint64
	internalSplits atomic.Uint64
	rootGrowths    atomic.Uint64
	rootRaces      atomic.Uint64
	rightMoves     atomic.Uint64
	retries        atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		LeafSplits:     c.leafSplits.Load(),
		InternalSplits: c.internalSplits.Load(),
		RootGrowths:    c.rootGrowths.Load(),
		RootRaces:      c.rootRaces.Load(),
		RightMoves:     c.rightMoves.Load(),
		Retries:        c.retries.Load(),
	}
}

func (c *counters) reset() {
	c.leafSplits.Store(0)
	c.internalSplits.Store(0)
	c.rootGrowths.Store(0)
	c.rootRaces.Store(0)
	c.rightMoves.Store(0)
	c.retries.Store(0)
}

// Stats returns a snapshot of the diagnostic counters of t.
func (t *Tree[K, V]) Stats() Stats {
	return t.stats.snapshot()
}

// Add returns the field-wise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		LeafSplits:     s.LeafSplits + other.LeafSplits,
		InternalSplits: s.InternalSplits + other.InternalSplits,
		RootGrowths:    s.RootGrowths + other.RootGrowths,
		RootRaces:      s.RootRaces + other.RootRaces,
		RightMoves:     s.RightMoves + other.RightMoves,
		Retries:        s.Retries + other.Retries,
	}
}
