package sequence

import "container/heap"

// DepthItem is a queued value with its draw depth.
type DepthItem[T any] struct {
	Value T
	Depth float64
	seq   uint64
	index int
}

type depthHeap[T any] struct {
	items []*DepthItem[T]
}

func (h *depthHeap[T]) Len() int {
	return len(h.items)
}

// Less puts the farthest item first; equal depths keep push order.
func (h *depthHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.seq < b.seq
}

func (h *depthHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *depthHeap[T]) Push(x any) {
	item := x.(*DepthItem[T])
	item.index = len(h.items)
	h.items = append(h.items, item)
}

func (h *depthHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	h.items = old[0 : n-1]
	return item
}

// DepthQueue orders values back to front for painter's-algorithm drawing.
type DepthQueue[T any] struct {
	h    depthHeap[T]
	next uint64
}

func NewDepthQueue[T any]() *DepthQueue[T] {
	q := &DepthQueue[T]{}
	heap.Init(&q.h)
	return q
}

func (q *DepthQueue[T]) Push(value T, depth float64) *DepthItem[T] {
	item := &DepthItem[T]{Value: value, Depth: depth, seq: q.next}
	q.next++
	heap.Push(&q.h, item)
	return item
}

// Pop removes the farthest value.
func (q *DepthQueue[T]) Pop() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	item := heap.Pop(&q.h).(*DepthItem[T])
	return item.Value, true
}

func (q *DepthQueue[T]) Peek() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.h.items[0].Value, true
}

// Update changes the depth of a queued item.
func (q *DepthQueue[T]) Update(item *DepthItem[T], depth float64) {
	if item.index < 0 {
		return
	}
	item.Depth = depth
	heap.Fix(&q.h, item.index)
}

// Drain pops everything, farthest first.
func (q *DepthQueue[T]) Drain() []T {
	out := make([]T, 0, q.h.Len())
	for q.h.Len() > 0 {
		out = append(out, heap.Pop(&q.h).(*DepthItem[T]).Value)
	}
	q.next = 0
	return out
}

func (q *DepthQueue[T]) Len() int {
	return q.h.Len()
}
