/*
Package fixedlist provides a bounded, index-addressed list used as node
storage by the B-link tree.

A List has a logical capacity but reserves one additional slot. Inserting
into a full list still succeeds, leaving the list in a transient overflow
state which the caller is expected to resolve (for the tree: by splitting
the node). InsertAt reports whether that happened.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package fixedlist

import "iter"

// List is a bounded list of elements. Lists are created with New or From.
type List[E any] struct {
	capacity int
	// store is the backing storage of length capacity+1; valid
	// elements are store[:n].
	store []E
	n     int
}

// New creates an empty list with the given logical capacity.
func New[E any](capacity int) *List[E] {
	check(capacity >= 0, "fixedlist.New: negative capacity")
	return &List[E]{
		capacity: capacity,
		store:    make([]E, capacity+1),
	}
}

// From creates a list with the given capacity holding elems.
// len(elems) may exceed capacity by one, resulting in an overflowed list.
func From[E any](capacity int, elems ...E) *List[E] {
	l := New[E](capacity)
	check(len(elems) <= len(l.store), "fixedlist.From: too many elements for capacity")
	l.n = copy(l.store, elems)
	return l
}

// Len returns the number of elements in l.
func (l *List[E]) Len() int {
	if l == nil {
		return 0
	}
	return l.n
}

// Cap returns the logical capacity of l.
func (l *List[E]) Cap() int {
	if l == nil {
		return 0
	}
	return l.capacity
}

// IsFull is true if another insert will overflow l.
func (l *List[E]) IsFull() bool {
	return l.Len() >= l.Cap()
}

// Overflowed is true if l holds more elements than its capacity.
func (l *List[E]) Overflowed() bool {
	return l.Len() > l.Cap()
}

// At returns the element at index i.
func (l *List[E]) At(i int) E {
	check(i >= 0 && i < l.Len(), "fixedlist.At: index out of range")
	return l.store[i]
}

// Last returns the last element of l. l must not be empty.
func (l *List[E]) Last() E {
	return l.At(l.Len() - 1)
}

// InsertAt inserts e at index i, shifting subsequent elements to the right.
// The insert always succeeds; overflowed is true if l now holds more
// elements than its capacity. Inserting into an already overflowed list
// is a programming error.
func (l *List[E]) InsertAt(i int, e E) (overflowed bool) {
	check(i >= 0 && i <= l.n, "fixedlist.InsertAt: index out of range")
	check(l.n < len(l.store), "fixedlist.InsertAt: list already overflowed")
	copy(l.store[i+1:l.n+1], l.store[i:l.n])
	l.store[i] = e
	l.n++
	return l.n > l.capacity
}

// Append appends e, with the same overflow semantics as InsertAt.
func (l *List[E]) Append(e E) (overflowed bool) {
	return l.InsertAt(l.n, e)
}

// Truncate shortens l to n elements.
func (l *List[E]) Truncate(n int) {
	check(n >= 0 && n <= l.n, "fixedlist.Truncate: length out of range")
	clear(l.store[n:l.n]) // release references
	l.n = n
}

// RemoveRange removes the half-open interval [from,to) from l.
func (l *List[E]) RemoveRange(from, to int) {
	check(from >= 0 && from <= to && to <= l.n, "fixedlist.RemoveRange: bounds invalid")
	m := copy(l.store[from:], l.store[to:l.n])
	l.Truncate(from + m)
}

// Slice returns a copy of the elements in [from,to) as a Go slice.
func (l *List[E]) Slice(from, to int) []E {
	check(from >= 0 && from <= to && to <= l.Len(), "fixedlist.Slice: bounds invalid")
	return append([]E(nil), l.store[from:to]...)
}

// Clone returns a copy of l with separate storage.
func (l *List[E]) Clone() *List[E] {
	if l == nil {
		return nil
	}
	c := New[E](l.capacity)
	c.n = copy(c.store, l.store[:l.n])
	return c
}

// Search returns the smallest index i in [0, Len()) for which pred(At(i))
// is true, or Len() if there is none. pred must be monotone: false for a
// prefix of l and true for the rest.
func (l *List[E]) Search(pred func(E) bool) int {
	lo, hi := 0, l.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if !pred(l.store[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// All iterates over index/element pairs of l.
func (l *List[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, l.store[i]) {
				return
			}
		}
	}
}

func check(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
