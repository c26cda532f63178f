package primitives

import (
	"iter"
	"slices"
)

// Key orders ranked items: higher Primary wins, then higher TieBreak.
type Key struct {
	Primary  int
	TieBreak int
}

// Compare returns -1, 0 or +1 as k is below, equal to or above other.
func (k Key) Compare(other Key) int {
	switch {
	case k.Primary < other.Primary:
		return -1
	case k.Primary > other.Primary:
		return 1
	case k.TieBreak < other.TieBreak:
		return -1
	case k.TieBreak > other.TieBreak:
		return 1
	}
	return 0
}

// Item is a ranked payload.
type Item[T any] struct {
	Key
	Payload T
}

// Ranking retains the top-K items by Key, best first.
//
// It is not safe for concurrent use; each search owns its own.
type Ranking[T any] struct {
	capacity int
	items    []Item[T]
}

// NewRanking returns an empty ranking holding at most capacity items.
// A capacity below 1 is treated as 1.
func NewRanking[T any](capacity int) *Ranking[T] {
	capacity = max(capacity, 1)
	return &Ranking[T]{capacity: capacity, items: make([]Item[T], 0, capacity+1)}
}

// Capacity returns the maximum number of retained items.
func (r *Ranking[T]) Capacity() int {
	return r.capacity
}

// Insert adds payload under (primary, tieBreak).
//
// When the ranking is full, the item must beat the current minimum strictly or
// it is rejected. An accepted item goes ahead of every item it ties with, and
// the minimum is evicted if the ranking overflows.
func (r *Ranking[T]) Insert(primary, tieBreak int, payload T) bool {
	key := Key{Primary: primary, TieBreak: tieBreak}
	if len(r.items) == r.capacity && key.Compare(r.items[len(r.items)-1].Key) <= 0 {
		return false
	}
	at := len(r.items)
	for i, it := range r.items {
		if key.Compare(it.Key) >= 0 {
			at = i
			break
		}
	}
	r.items = slices.Insert(r.items, at, Item[T]{Key: key, Payload: payload})
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
	return true
}

// Peek returns the best item without removing it. It panics if the ranking is empty.
func (r *Ranking[T]) Peek() Item[T] {
	return r.items[0]
}

// Pop removes and returns the best item. It panics if the ranking is empty.
func (r *Ranking[T]) Pop() Item[T] {
	it := r.items[0]
	var zero Item[T]
	r.items[0] = zero
	r.items = r.items[1:]
	return it
}

// Len returns the number of retained items.
func (r *Ranking[T]) Len() int {
	return len(r.items)
}

// IsEmpty reports whether the ranking holds no items.
func (r *Ranking[T]) IsEmpty() bool {
	return len(r.items) == 0
}

// All iterates over the items best first without removing them.
func (r *Ranking[T]) All() iter.Seq[Item[T]] {
	return func(yield func(Item[T]) bool) {
		for _, it := range r.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Drain pops every item, best first.
func (r *Ranking[T]) Drain() []Item[T] {
	out := slices.Clone(r.items)
	r.items = r.items[:0]
	return out
}

// Merge inserts every item of other into r. other is left unchanged.
func (r *Ranking[T]) Merge(other *Ranking[T]) {
	for it := range other.All() {
		r.Insert(it.Primary, it.TieBreak, it.Payload)
	}
}
