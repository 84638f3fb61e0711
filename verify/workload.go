package verify

import (
	"fmt"
	"math/rand/v2"
)

// Workload configures the trials of a verification run.
type Workload struct {
	Workers          int    // number of concurrent writers
	KeysPerWorker    int    // random keys inserted by each writer
	KeySpace         int64  // keys are drawn from [0, KeySpace)
	InternalCapacity int    // tree internal node capacity
	LeafCapacity     int    // tree leaf node capacity
	Seed             uint64 // seed for the key streams
}

// DefaultWorkload is three writers inserting five keys each from [0,10000)
// into a tree with capacities (4,4). Small trees with few writers maximize the
// chance of writers colliding at the root.
func DefaultWorkload() Workload {
	return Workload{
		Workers:          3,
		KeysPerWorker:    5,
		KeySpace:         10000,
		InternalCapacity: 4,
		LeafCapacity:     4,
	}
}

func (w Workload) validate() error {
	switch {
	case w.Workers < 1:
		return fmt.Errorf("%w: need at least one worker, have %d", ErrWorkload, w.Workers)
	case w.KeysPerWorker < 0:
		return fmt.Errorf("%w: negative number of keys per worker", ErrWorkload)
	case w.KeySpace < 1:
		return fmt.Errorf("%w: key space must be positive, is %d", ErrWorkload, w.KeySpace)
	}
	return nil
}

// keyStream returns the keys inserted by a worker in a trial. Streams are
// deterministic for a given seed; the interleaving of writers is not.
func (w Workload) keyStream(trial, worker int) []int64 {
	rng := rand.New(rand.NewPCG(w.Seed, uint64(trial)<<32|uint64(worker)))
	keys := make([]int64, w.KeysPerWorker)
	for i := range keys {
		keys[i] = rng.Int64N(w.KeySpace)
	}
	return keys
}
