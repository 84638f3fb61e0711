/*
Command blinkstress repeatedly fills fresh B-link trees from concurrent writers
and compares each tree with a reference set.

	blinkstress [flags]

The default workload is three writers inserting five random keys each into a
tree with capacities (4,4), repeated 1000 times. Small trees with few writers
collide at the root most often. blinkstress exits with status 1 on the first
mismatch, after printing the expected and actual keys and, if requested,
writing the failed tree as a Graphviz file.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/npillmayer/blinktree"
	"github.com/npillmayer/blinktree/verify"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"golang.org/x/term"
)

func main() {
	w := verify.DefaultWorkload()
	trials := flag.Int("trials", 1000, "number of trials")
	flag.IntVar(&w.Workers, "workers", w.Workers, "concurrent writers per trial")
	flag.IntVar(&w.KeysPerWorker, "keys", w.KeysPerWorker, "random keys inserted by each writer")
	flag.Int64Var(&w.KeySpace, "space", w.KeySpace, "keys are drawn from [0,space)")
	flag.IntVar(&w.InternalCapacity, "internal", w.InternalCapacity, "capacity of internal nodes")
	flag.IntVar(&w.LeafCapacity, "leaf", w.LeafCapacity, "capacity of leaf nodes")
	flag.Uint64Var(&w.Seed, "seed", uint64(time.Now().UnixNano()), "seed for the key streams")
	level := flag.String("trace", "error", "trace level (debug, info, error)")
	dot := flag.String("dot", "", "write the tree of a failed trial to this Graphviz file")
	flag.Parse()

	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(traceLevel(*level))
	color.NoColor = color.NoColor || !term.IsTerminal(int(os.Stdout.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	b := verify.NewBroadcaster()
	progress, _ := b.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report(progress, *trials)
	}()
	fmt.Printf("%d trials, %d writers x %d keys from [0,%d), capacities (%d,%d), seed %d\n",
		*trials, w.Workers, w.KeysPerWorker, w.KeySpace, w.InternalCapacity, w.LeafCapacity, w.Seed)
	sum, err := verify.Run(ctx, w, *trials, b)
	b.Close()
	<-done
	if err != nil && !errors.Is(err, verify.ErrMismatch) {
		color.Red("error: %v", err)
		os.Exit(2)
	}
	if sum.Failure != nil {
		fail(sum.Failure, *dot)
		os.Exit(1)
	}
	color.Green("OK  %d trials, max height %d", sum.Trials, sum.MaxHeight)
	fmt.Printf("    leaf splits %d, internal splits %d, root growths %d, root races %d, right moves %d, retries %d\n",
		sum.Stats.LeafSplits, sum.Stats.InternalSplits, sum.Stats.RootGrowths,
		sum.Stats.RootRaces, sum.Stats.RightMoves, sum.Stats.Retries)
}

// report prints a progress line every tenth of the run.
func report(trials <-chan verify.Trial, total int) {
	step := max(total/10, 1)
	for trial := range trials {
		if trial.Failed() || (trial.Index+1)%step != 0 {
			continue
		}
		fmt.Printf("    %6d/%d trials passed\n", trial.Index+1, total)
	}
}

func fail(trial *verify.Trial, dotfile string) {
	color.Red("FAIL trial %d", trial.Index)
	fmt.Printf("    expected %v\n", trial.Expected)
	fmt.Printf("    actual   %v\n", trial.Actual)
	fmt.Printf("    %v\n", trial.Err)
	if dotfile == "" || trial.Tree == nil {
		return
	}
	f, err := os.Create(dotfile)
	if err != nil {
		color.Red("cannot create %s: %v", dotfile, err)
		return
	}
	defer f.Close()
	if err := blinktree.Tree2Dot(trial.Tree, f); err != nil {
		color.Red("cannot write %s: %v", dotfile, err)
		return
	}
	fmt.Printf("    tree written to %s\n", dotfile)
}

func traceLevel(s string) tracing.TraceLevel {
	switch s {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}
