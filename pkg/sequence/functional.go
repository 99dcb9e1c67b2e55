package sequence

import (
	"iter"
	"sort"
)

// Pair is one element of a two-valued sequence.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Pairs is a chainable view over an iter.Seq2, such as an ecs query. Lazy
// stages re-run the source every time the result is ranged over.
type Pairs[K, V any] struct {
	seq iter.Seq2[K, V]
}

// Of wraps seq.
func Of[K, V any](seq iter.Seq2[K, V]) *Pairs[K, V] {
	return &Pairs[K, V]{seq: seq}
}

// FromSlice replays collected pairs.
func FromSlice[K, V any](data []Pair[K, V]) *Pairs[K, V] {
	return &Pairs[K, V]{
		seq: func(yield func(K, V) bool) {
			for _, p := range data {
				if !yield(p.Key, p.Value) {
					return
				}
			}
		},
	}
}

// Seq returns the underlying sequence.
func (p *Pairs[K, V]) Seq() iter.Seq2[K, V] {
	return p.seq
}

// Filter keeps pairs satisfying pred.
func (p *Pairs[K, V]) Filter(pred func(K, V) bool) *Pairs[K, V] {
	return &Pairs[K, V]{
		seq: func(yield func(K, V) bool) {
			for k, v := range p.seq {
				if pred(k, v) && !yield(k, v) {
					return
				}
			}
		},
	}
}

// Take stops after n pairs.
func (p *Pairs[K, V]) Take(n int) *Pairs[K, V] {
	return &Pairs[K, V]{
		seq: func(yield func(K, V) bool) {
			if n <= 0 {
				return
			}
			count := 0
			for k, v := range p.seq {
				if !yield(k, v) {
					return
				}
				count++
				if count == n {
					return
				}
			}
		},
	}
}

// Each runs action on every pair.
func (p *Pairs[K, V]) Each(action func(K, V)) {
	for k, v := range p.seq {
		action(k, v)
	}
}

func (p *Pairs[K, V]) Collect() []Pair[K, V] {
	var out []Pair[K, V]
	for k, v := range p.seq {
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return out
}

func (p *Pairs[K, V]) Keys() []K {
	var out []K
	for k := range p.seq {
		out = append(out, k)
	}
	return out
}

func (p *Pairs[K, V]) Values() []V {
	var out []V
	for _, v := range p.seq {
		out = append(out, v)
	}
	return out
}

// Sort returns the pairs ordered by less (eager, stable).
// Example: Of(q).Sort(func(a, b Pair[Entity, *Name]) bool { return *a.Value < *b.Value })
func (p *Pairs[K, V]) Sort(less func(a, b Pair[K, V]) bool) *Pairs[K, V] {
	data := p.Collect()
	sort.SliceStable(data, func(i, j int) bool {
		return less(data[i], data[j])
	})
	return FromSlice(data)
}

// First returns the first pair, or false if empty.
func (p *Pairs[K, V]) First() (K, V, bool) {
	for k, v := range p.seq {
		return k, v, true
	}
	var zk K
	var zv V
	return zk, zv, false
}

// Find returns the first pair matching pred.
func (p *Pairs[K, V]) Find(pred func(K, V) bool) (K, V, bool) {
	return p.Filter(pred).First()
}

// Any reports whether some pair satisfies pred.
func (p *Pairs[K, V]) Any(pred func(K, V) bool) bool {
	_, _, ok := p.Find(pred)
	return ok
}

func (p *Pairs[K, V]) Count() int {
	n := 0
	for range p.seq {
		n++
	}
	return n
}

// Index returns the position of the first key equal to key, or -1.
func Index[K comparable, V any](p *Pairs[K, V], key K) int {
	i := 0
	for k := range p.seq {
		if k == key {
			return i
		}
		i++
	}
	return -1
}

// Map converts each pair to a single value.
func Map[K, V, R any](p *Pairs[K, V], fn func(K, V) R) iter.Seq[R] {
	return func(yield func(R) bool) {
		for k, v := range p.seq {
			if !yield(fn(k, v)) {
				return
			}
		}
	}
}

// Join pairs each element of p with the value get returns for its key and
// drops keys get does not know. get is typically a per-entity component fetch.
func Join[K, V, W any](p *Pairs[K, V], get func(K) (W, bool)) iter.Seq2[K, Pair[V, W]] {
	return func(yield func(K, Pair[V, W]) bool) {
		for k, v := range p.seq {
			w, ok := get(k)
			if !ok {
				continue
			}
			if !yield(k, Pair[V, W]{Key: v, Value: w}) {
				return
			}
		}
	}
}
