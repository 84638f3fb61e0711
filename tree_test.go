package blinktree

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeIntTree(t *testing.T, internalCap, leafCap int) *Tree[int, int] {
	t.Helper()
	tree, err := New[int, int](internalCap, leafCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	for _, caps := range [][2]int{{0, 3}, {3, 0}, {-1, 4}, {0, 0}} {
		_, err := New[int, string](caps[0], caps[1])
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("capacities %v: expected ErrInvalidConfig, got %v", caps, err)
		}
	}
	_, err := NewWithConfig[string, int](Config[string]{InternalCapacity: 4, LeafCapacity: 4})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing comparator, got %v", err)
	}
}

func TestNewTreeIsSingleEmptyLeaf(t *testing.T) {
	tree := makeIntTree(t, 4, 4)
	if tree.Height() != 0 || tree.Len() != 0 {
		t.Fatalf("unexpected empty tree state len=%d height=%d", tree.Len(), tree.Height())
	}
	if s := tree.String(); s != "[]" {
		t.Fatalf("expected [], got %s", s)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("expected empty tree to be valid, got %v", err)
	}
	if cfg := tree.Config(); cfg.InternalCapacity != 4 || cfg.LeafCapacity != 4 || cfg.Compare == nil {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestInsertSequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "blinktree")
	defer teardown()
	//
	tree := makeIntTree(t, 3, 3)
	for _, k := range []int{50, 60, 30, 40, 70, 55, 45, 53, 35, 25} {
		if !tree.Insert(k, k*10) {
			t.Fatalf("insert of %d returned false", k)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("after insert of %d: %v", k, err)
		}
	}
	want := "[25, 30, 35, 40, 45, 50, 53, 55, 60, 70]"
	if got := tree.String(); got != want {
		t.Fatalf("traversal mismatch: got=%s want=%s", got, want)
	}
	tree.ForEach(func(k, v int) bool {
		if v != k*10 {
			t.Errorf("value for key %d is %d, expected %d", k, v, k*10)
		}
		return true
	})
	if tree.Height() == 0 {
		t.Errorf("expected tree to have grown, height is 0")
	}
}

func TestInsertGrowsRootTwice(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer func() {
		teardown()
		gtrace.CoreTracer = nil
	}()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := makeIntTree(t, 2, 2)
	keys := []int{70, 69, 100, 99, 24, 21, 14, 29, 35}
	wantHeights := []int{0, 0, 1, 1, 1, 2, 2, 2, 2}
	for i, k := range keys {
		if !tree.Insert(k, i) {
			t.Fatalf("insert of %d returned false", k)
		}
		if h := tree.Height(); h != wantHeights[i] {
			t.Fatalf("after insert of %d: height=%d, expected %d", k, h, wantHeights[i])
		}
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
	want := []int{14, 21, 24, 29, 35, 69, 70, 99, 100}
	if got := tree.Keys(); !slices.Equal(got, want) {
		t.Fatalf("keys mismatch: got=%v want=%v", got, want)
	}
	stats := tree.Stats()
	if stats.RootGrowths != 2 || stats.LeafSplits != 5 || stats.InternalSplits != 2 {
		t.Fatalf("unexpected split statistics: %+v", stats)
	}
	if stats.RootRaces != 0 || stats.Retries != 0 {
		t.Fatalf("single-threaded insert must not race: %+v", stats)
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	tree := makeIntTree(t, 3, 3)
	for k := range 40 {
		tree.Insert(k, k)
	}
	for k := range 40 {
		if tree.Insert(k, -1) {
			t.Fatalf("duplicate insert of %d returned true", k)
		}
	}
	tree.ForEach(func(k, v int) bool {
		if v != k {
			t.Fatalf("duplicate insert changed value of %d to %d", k, v)
		}
		return true
	})
	if tree.Len() != 40 {
		t.Fatalf("expected 40 keys, have %d", tree.Len())
	}
}

// Separators are promoted as the largest key of the left node and serve as
// its inclusive high key. Re-inserting them must find them on the left.
func TestSeparatorKeysStayOnTheLeft(t *testing.T) {
	tree := makeIntTree(t, 2, 2)
	for _, k := range []int{10, 20, 30, 40, 50, 60, 70} {
		tree.Insert(k, k)
	}
	var separators []int
	for c := tree.leftmost(0).load(); c.link != nil; c = c.link.load() {
		separators = append(separators, c.highKey)
	}
	if len(separators) == 0 {
		t.Fatalf("expected leaf level to be split")
	}
	for _, sep := range separators {
		if tree.Insert(sep, 0) {
			t.Fatalf("separator %d could be inserted twice", sep)
		}
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAscendingAndDescending(t *testing.T) {
	for _, caps := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {3, 5}, {8, 8}} {
		asc := makeIntTree(t, caps[0], caps[1])
		desc := makeIntTree(t, caps[0], caps[1])
		for k := range 300 {
			asc.Insert(k, k)
			desc.Insert(299-k, k)
		}
		for _, tree := range []*Tree[int, int]{asc, desc} {
			if err := tree.Check(); err != nil {
				t.Fatalf("capacities %v: %v", caps, err)
			}
			keys := tree.Keys()
			if len(keys) != 300 || !slices.IsSorted(keys) {
				t.Fatalf("capacities %v: unexpected keys %v", caps, keys)
			}
		}
	}
}

func TestScanNodeFollowsRightLink(t *testing.T) {
	tree := makeIntTree(t, 4, 2)
	for _, k := range []int{1, 2, 3} {
		tree.Insert(k, k)
	}
	left := tree.leftmost(0)
	c := left.load()
	if !c.bounded || c.link == nil {
		t.Fatalf("expected leftmost leaf to be split")
	}
	if next, moved := tree.scanNode(c.highKey, left); moved || next != left {
		t.Errorf("key equal to high key must stay in node")
	}
	if next, moved := tree.scanNode(c.highKey+1, left); !moved || next != c.link {
		t.Errorf("key above high key must follow right link")
	}
	root := tree.root.Load()
	if next, moved := tree.scanNode(3, root); moved || next != c.link {
		t.Errorf("root must route key 3 to right leaf")
	}
}

func TestMoveRightRepairsStaleDescent(t *testing.T) {
	tree := makeIntTree(t, 4, 4)
	for _, k := range []int{10, 20, 30} {
		tree.Insert(k, k)
	}
	// descend for 45, but split the landing leaf before locking it
	leaf, ancestors := tree.descend(45)
	if len(ancestors) != 0 {
		t.Fatalf("expected no ancestors for single leaf tree")
	}
	for _, k := range []int{40, 50, 60} {
		tree.Insert(k, k)
	}
	leaf.lock()
	target := tree.moveRight(45, leaf)
	defer target.unlock()
	if target == leaf {
		t.Fatalf("expected moveRight to leave the split leaf")
	}
	if !target.load().covers(45, tree.cfg.Compare) {
		t.Fatalf("moveRight returned node not covering key")
	}
	if tree.Stats().RightMoves == 0 {
		t.Errorf("expected right moves to be counted")
	}
}

func TestGrowRootOnlyFromCurrentRoot(t *testing.T) {
	tree := makeIntTree(t, 2, 2)
	for _, k := range []int{1, 2, 3} {
		tree.Insert(k, k)
	}
	left := tree.leftmost(0)
	right := left.load().link
	if tree.growRoot(left, right, 1) {
		t.Fatalf("grew root from a node which is not the root")
	}
	if tree.Height() != 1 {
		t.Fatalf("height changed to %d", tree.Height())
	}
	if races := tree.Stats().RootRaces; races != 1 {
		t.Fatalf("expected the stale root growth to be counted as race, have %d", races)
	}
}

func TestCustomComparator(t *testing.T) {
	tree, err := NewWithConfig[string, int](Config[string]{
		InternalCapacity: 2,
		LeafCapacity:     3,
		Compare: func(a, b string) int {
			return strings.Compare(b, a) // descending
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range []string{"delta", "alpha", "echo", "charlie", "bravo", "foxtrot", "golf"} {
		if !tree.Insert(s, i) {
			t.Fatalf("insert of %q failed", s)
		}
	}
	if tree.Insert("echo", 99) {
		t.Fatalf("duplicate string key accepted")
	}
	want := []string{"golf", "foxtrot", "echo", "delta", "charlie", "bravo", "alpha"}
	if got := tree.Keys(); !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestClearResetsTree(t *testing.T) {
	tree := makeIntTree(t, 2, 2)
	for k := range 50 {
		tree.Insert(k, k)
	}
	if tree.Height() == 0 {
		t.Fatalf("expected tree to grow")
	}
	tree.Clear()
	if tree.Height() != 0 || tree.Len() != 0 || tree.String() != "[]" {
		t.Fatalf("tree not cleared: height=%d len=%d", tree.Height(), tree.Len())
	}
	if tree.Stats() != (Stats{}) {
		t.Fatalf("stats not reset: %+v", tree.Stats())
	}
	if !tree.Insert(7, 7) || tree.String() != "[7]" {
		t.Fatalf("cleared tree not usable")
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestForEachStopsEarly(t *testing.T) {
	tree := makeIntTree(t, 2, 2)
	for k := range 20 {
		tree.Insert(k, k)
	}
	var seen []int
	tree.ForEach(func(k, _ int) bool {
		seen = append(seen, k)
		return len(seen) < 5
	})
	if !slices.Equal(seen, []int{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected iteration prefix %v", seen)
	}
}
