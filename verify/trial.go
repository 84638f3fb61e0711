package verify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/npillmayer/blinktree"
)

// Trial is the outcome of a single verification trial.
type Trial struct {
	Index    int
	Expected []int64 // keys of the reference set, ascending
	Actual   []int64 // keys of the tree's leaf chain
	Inserted int     // number of inserts which returned true
	Height   int
	Stats    blinktree.Stats
	Tree     *blinktree.Tree[int64, int64] // retained for post-mortem dumps
	Err      error                         // wraps ErrMismatch on failure
}

// Failed is true if the tree did not match the reference.
func (trial Trial) Failed() bool {
	return trial.Err != nil
}

// Summary aggregates the trials of a run.
type Summary struct {
	Trials    int // trials completed
	Failures  int
	MaxHeight int
	Stats     blinktree.Stats // accumulated over all trials
	Failure   *Trial          // first failed trial, if any
}

// RunTrial executes a single trial of workload w: w.Workers goroutines
// concurrently insert w.KeysPerWorker random keys each into a fresh tree.
// Afterwards the tree is compared with the reference set.
//
// The returned error is non-nil only if the trial could not be executed;
// a mismatch is reported in Trial.Err.
func RunTrial(ctx context.Context, w Workload, index int) (Trial, error) {
	trial := Trial{Index: index}
	if err := w.validate(); err != nil {
		return trial, err
	}
	tree, err := blinktree.New[int64, int64](w.InternalCapacity, w.LeafCapacity)
	if err != nil {
		return trial, fmt.Errorf("%w: %w", ErrWorkload, err)
	}
	ref, err := NewReferenceSet()
	if err != nil {
		return trial, err
	}
	defer ref.Close()
	inserted := make([]int, w.Workers)
	errs := make([]error, w.Workers)
	var wg sync.WaitGroup
	for worker := range w.Workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for _, key := range w.keyStream(index, worker) {
				if ctx.Err() != nil {
					errs[worker] = ctx.Err()
					return
				}
				if err := ref.Add(key); err != nil {
					errs[worker] = err
					return
				}
				if tree.Insert(key, key) {
					inserted[worker]++
				}
			}
		}(worker)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return trial, err
	}
	if trial.Expected, err = ref.Keys(); err != nil {
		return trial, err
	}
	trial.Actual = tree.Keys()
	for _, n := range inserted {
		trial.Inserted += n
	}
	trial.Height = tree.Height()
	trial.Stats = tree.Stats()
	trial.Tree = tree
	trial.Err = compare(trial, tree)
	return trial, nil
}

func compare(trial Trial, tree *blinktree.Tree[int64, int64]) error {
	if !slices.Equal(trial.Expected, trial.Actual) {
		return fmt.Errorf("%w: trial %d: expected %v, actual %v",
			ErrMismatch, trial.Index, trial.Expected, trial.Actual)
	}
	if trial.Inserted != len(trial.Expected) {
		return fmt.Errorf("%w: trial %d: %d inserts succeeded for %d distinct keys",
			ErrMismatch, trial.Index, trial.Inserted, len(trial.Expected))
	}
	if err := tree.Check(); err != nil {
		return fmt.Errorf("%w: trial %d: %w", ErrMismatch, trial.Index, err)
	}
	return nil
}

// Run executes trials of workload w one after the other and publishes every
// trial to b, if b is non-nil. Run stops at the first failed trial and
// returns its error, which wraps ErrMismatch.
func Run(ctx context.Context, w Workload, trials int, b *Broadcaster) (Summary, error) {
	var sum Summary
	for i := range trials {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		trial, err := RunTrial(ctx, w, i)
		if err != nil {
			return sum, err
		}
		sum.Trials++
		sum.MaxHeight = max(sum.MaxHeight, trial.Height)
		sum.Stats = sum.Stats.Add(trial.Stats)
		b.publish(trial)
		if trial.Failed() {
			tracer().Errorf("trial %d failed: %v", i, trial.Err)
			sum.Failures++
			sum.Failure = &trial
			return sum, trial.Err
		}
		tracer().Debugf("trial %d: %d keys, height %d", i, len(trial.Actual), trial.Height)
	}
	return sum, nil
}
