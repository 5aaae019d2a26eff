package interval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	require.True(t, Make(5, 5).Empty())
	require.True(t, Make(5, 3).Empty())
	require.False(t, Make(5, 6).Empty())
}

func TestContains(t *testing.T) {
	iv := Make(10, 20)
	require.True(t, iv.Contains(10))
	require.True(t, iv.Contains(15))
	require.False(t, iv.Contains(20))
	require.False(t, iv.Contains(9))
}

func TestContainsInterval(t *testing.T) {
	iv := Make(10, 20)
	require.True(t, iv.ContainsInterval(Make(10, 20)))
	require.True(t, iv.ContainsInterval(Make(12, 18)))
	require.False(t, iv.ContainsInterval(Make(5, 15)))
	require.False(t, iv.ContainsInterval(Make(15, 25)))
	// Empty arguments are never contained, per spec.md's documented
	// convention, even by an interval that equals it endpoint-for-endpoint.
	require.False(t, iv.ContainsInterval(Make(15, 15)))
	require.False(t, Make(10, 10).ContainsInterval(Make(10, 10)))
}

func TestIntersectsAndIntersection(t *testing.T) {
	a := Make(0, 10)
	b := Make(5, 15)
	require.True(t, a.Intersects(b))
	got, ok := a.Intersection(b)
	require.True(t, ok)
	require.Equal(t, Make(5, 10), got)

	c := Make(10, 20)
	require.False(t, a.Intersects(c), "abutting intervals do not intersect")
	_, ok = a.Intersection(c)
	require.False(t, ok)

	require.False(t, a.Intersects(Make(3, 3)), "an empty interval never intersects")
}

func TestDifference(t *testing.T) {
	a := Make(0, 100)

	lo, hi := a.Difference(Make(10, 20))
	require.Equal(t, Make(0, 10), lo)
	require.Equal(t, Make(20, 100), hi)

	// Subtracting something past the end leaves lo = a, hi empty.
	lo, hi = a.Difference(Make(200, 300))
	require.Equal(t, Make(0, 100), lo)
	require.True(t, hi.Empty())

	// Subtracting something before the start leaves hi = a, lo empty.
	lo, hi = a.Difference(Make(-50, -10))
	require.True(t, lo.Empty())
	require.Equal(t, Make(0, 100), hi)

	// Subtracting the whole thing leaves both empty.
	lo, hi = a.Difference(Make(0, 100))
	require.True(t, lo.Empty())
	require.True(t, hi.Empty())
}

func TestLessOrdering(t *testing.T) {
	// Ascending Min.
	require.True(t, Make(1, 5).Less(Make(2, 3)))
	require.False(t, Make(2, 3).Less(Make(1, 5)))

	// Same Min, ties broken by descending Max: the wider interval sorts
	// first.
	require.True(t, Make(1, 10).Less(Make(1, 5)))
	require.False(t, Make(1, 5).Less(Make(1, 10)))

	// An empty probe interval [v, v) sorts after any non-empty stored
	// interval with the same Min — this is what lets IntervalSet locate
	// the candidate interval for a point query via upper_bound.
	stored := Make(10, 20)
	probe := Make(10, 10)
	require.True(t, stored.Less(probe))
	require.False(t, probe.Less(stored))
}

func TestString(t *testing.T) {
	require.Equal(t, "[10, 20)", Make(10, 20).String())
	require.Equal(t, "[]", Make(5, 5).String())
}
