package sequence

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(names ...string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, n := range names {
			if !yield(i, n) {
				return
			}
		}
	}
}

func TestPairsFilterTakeCollect(t *testing.T) {
	p := Of(numbered("a", "bb", "c", "dd", "eee"))

	long := p.Filter(func(_ int, s string) bool { return len(s) > 1 })
	assert.Equal(t, []int{1, 3, 4}, long.Keys())
	assert.Equal(t, []string{"bb", "dd"}, long.Take(2).Values())
	assert.Empty(t, long.Take(0).Collect())
	assert.Equal(t, 3, long.Count())
	assert.Equal(t, 3, long.Count(), "restartable")
}

func TestPairsSortIsStable(t *testing.T) {
	p := Of(numbered("b", "a", "b", "a"))
	sorted := p.Sort(func(x, y Pair[int, string]) bool { return x.Value < y.Value })
	assert.Equal(t, []int{1, 3, 0, 2}, sorted.Keys())
}

func TestPairsFirstFindAny(t *testing.T) {
	p := Of(numbered("x", "y", "z"))
	k, v, ok := p.First()
	require.True(t, ok)
	assert.Equal(t, 0, k)
	assert.Equal(t, "x", v)

	k, _, ok = p.Find(func(_ int, s string) bool { return s == "z" })
	require.True(t, ok)
	assert.Equal(t, 2, k)
	assert.False(t, p.Any(func(_ int, s string) bool { return s == "w" }))

	_, _, ok = Of(numbered()).First()
	assert.False(t, ok)
}

func TestIndexMapJoin(t *testing.T) {
	p := Of(numbered("a", "b", "c"))
	assert.Equal(t, 1, Index(p, 1))
	assert.Equal(t, -1, Index(p, 9))

	upper := slices.Collect(Map(p, func(i int, s string) string { return s + s }))
	assert.Equal(t, []string{"aa", "bb", "cc"}, upper)

	scores := map[int]float64{0: 1.5, 2: 3}
	var joined []Pair[string, float64]
	for _, pair := range Join(p, func(i int) (float64, bool) {
		v, ok := scores[i]
		return v, ok
	}) {
		joined = append(joined, pair)
	}
	assert.Equal(t, []Pair[string, float64]{{"a", 1.5}, {"c", 3}}, joined)
}

func TestDepthQueueOrdersBackToFront(t *testing.T) {
	q := NewDepthQueue[string]()
	q.Push("near", 1)
	q.Push("far", 10)
	mid := q.Push("mid", 5)
	q.Push("near-2", 1)

	top, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "far", top)

	q.Update(mid, 20)
	assert.Equal(t, []string{"mid", "far", "near", "near-2"}, q.Drain())
	assert.Equal(t, 0, q.Len())

	_, ok = q.Pop()
	assert.False(t, ok)
}
