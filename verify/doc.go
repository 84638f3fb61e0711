/*
Package verify runs concurrent insert workloads against a B-link tree and
checks the outcome against a reference ordered set.

A trial spawns a number of writer goroutines, each inserting random keys into
a fresh tree and into the reference set. After all writers have finished, the
tree's leaf chain has to list exactly the keys of the reference set, every
distinct key has to have been inserted successfully exactly once, and the
tree has to pass its structural invariant check.

The reference set is an in-memory Pebble LSM (github.com/cockroachdb/pebble),
an implementation entirely independent from the tree under test.

Trial results may be broadcast to any number of subscribers, e.g. a progress
printer and a failure dumper.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package verify

import (
	"errors"

	"github.com/npillmayer/blinktree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the tree's core tracer.
func tracer() tracing.Trace {
	return blinktree.T()
}

var (
	// ErrMismatch signals a tree which disagrees with the reference set or
	// fails its invariant check.
	ErrMismatch = errors.New("verify: tree does not match reference")
	// ErrWorkload signals an invalid workload configuration.
	ErrWorkload = errors.New("verify: invalid workload")
)
