/*
Command blinkbench measures concurrent insert throughput of a B-link tree for
an increasing number of writers.

	blinkbench [flags]

For each writer count from 1 to -max-workers, a fresh tree is filled with
-keys distinct keys, split evenly between the writers. Results are written
as CSV and, optionally, as a throughput chart.
*/
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/npillmayer/blinktree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type result struct {
	Workers  int
	Keys     int
	Elapsed  time.Duration
	Height   int
	Stats    blinktree.Stats
	AllocsMB uint64
}

func (r result) throughput() float64 {
	return float64(r.Keys) / r.Elapsed.Seconds()
}

func main() {
	maxWorkers := flag.Int("max-workers", runtime.GOMAXPROCS(0), "largest number of concurrent writers")
	keys := flag.Int("keys", 200000, "distinct keys inserted per run")
	internal := flag.Int("internal", 64, "capacity of internal nodes")
	leaf := flag.Int("leaf", 64, "capacity of leaf nodes")
	csvfile := flag.String("csv", "", "write results to this CSV file instead of stdout")
	pngfile := flag.String("png", "", "write a throughput chart to this PNG file")
	flag.Parse()

	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)

	var out io.Writer = os.Stdout
	if *csvfile != "" {
		f, err := os.Create(*csvfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "blinkbench: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := csv.NewWriter(out)
	w.Write([]string{"workers", "keys", "elapsed_ns", "inserts_per_sec", "height",
		"leaf_splits", "internal_splits", "root_races", "right_moves", "retries", "alloc_mb"})
	var results []result
	for workers := 1; workers <= *maxWorkers; workers++ {
		r, err := run(workers, *keys, *internal, *leaf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "blinkbench: %v\n", err)
			os.Exit(1)
		}
		record(w, r)
		results = append(results, r)
		gtrace.CoreTracer.Infof("%d writers: %.0f inserts/s", workers, r.throughput())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "blinkbench: %v\n", err)
		os.Exit(1)
	}
	if *pngfile != "" {
		if err := chart(results, *pngfile); err != nil {
			fmt.Fprintf(os.Stderr, "blinkbench: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(workers, keys, internal, leaf int) (result, error) {
	tree, err := blinktree.New[int, int](internal, leaf)
	if err != nil {
		return result{}, err
	}
	perm := rand.Perm(keys)
	share := keys / workers
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	var wg sync.WaitGroup
	for i := range workers {
		part := perm[i*share : (i+1)*share]
		if i == workers-1 {
			part = perm[i*share:]
		}
		wg.Add(1)
		go func(part []int) {
			defer wg.Done()
			for _, k := range part {
				tree.Insert(k, k)
			}
		}(part)
	}
	wg.Wait()
	elapsed := time.Since(start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	if n := tree.Len(); n != keys {
		return result{}, fmt.Errorf("%d writers: tree holds %d keys, expected %d", workers, n, keys)
	}
	return result{
		Workers:  workers,
		Keys:     keys,
		Elapsed:  elapsed,
		Height:   tree.Height(),
		Stats:    tree.Stats(),
		AllocsMB: (after.TotalAlloc - before.TotalAlloc) / 1024 / 1024,
	}, nil
}

func record(w *csv.Writer, r result) {
	w.Write([]string{
		strconv.Itoa(r.Workers),
		strconv.Itoa(r.Keys),
		strconv.FormatInt(r.Elapsed.Nanoseconds(), 10),
		strconv.FormatFloat(r.throughput(), 'f', 0, 64),
		strconv.Itoa(r.Height),
		strconv.FormatUint(r.Stats.LeafSplits, 10),
		strconv.FormatUint(r.Stats.InternalSplits, 10),
		strconv.FormatUint(r.Stats.RootRaces, 10),
		strconv.FormatUint(r.Stats.RightMoves, 10),
		strconv.FormatUint(r.Stats.Retries, 10),
		strconv.FormatUint(r.AllocsMB, 10),
	})
}

func chart(results []result, filename string) error {
	p := plot.New()
	p.Title.Text = "B-link tree concurrent inserts"
	p.X.Label.Text = "writers"
	p.Y.Label.Text = "inserts/s"
	pts := make(plotter.XYs, len(results))
	for i, r := range results {
		pts[i].X = float64(r.Workers)
		pts[i].Y = r.throughput()
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, points, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
