/*
Package blinktree implements an in-memory ordered index which supports
concurrent insertion without a global lock.

The index is a B-link tree as described by Lehman and Yao (“Efficient
Locking for Concurrent Operations on B-Trees”, ACM TODS 6(4), 1981). Every
node carries a high key, an upper bound for the keys reachable through it,
and a link to its right sibling on the same level. A split publishes the new
right sibling before the parent learns about it; a writer which arrives at a
node whose range has moved right simply follows the link.

Operations

	Insert     descends without locks, locks the landing leaf,
	           moves right as needed, inserts or splits
	Clear      resets the tree to a single empty leaf (not concurrency safe)
	ForEach    walks the leaf level in key order

Readers never lock. Each node publishes its content as an immutable snapshot
through an atomic pointer; writers serialize on a per-node mutex, build a new
snapshot and swap it in. Lock coupling (lock the next node, then release the
current one) is used when moving right along a level and when climbing to a
parent after a split. Locks are only ever acquired left-to-right and
bottom-up, so inserts cannot deadlock.

Deletion, range scans and point lookups are not supported.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package blinktree

import (
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	if gtrace.CoreTracer != nil {
		return gtrace.CoreTracer
	}
	return fallbackTracer()
}

// fallbackTracer is used as long as no core tracer has been configured.
var fallbackTracer = sync.OnceValue(func() tracing.Trace {
	tr := gologadapter.New()
	tr.SetTraceLevel(tracing.LevelError)
	return tr
})

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
