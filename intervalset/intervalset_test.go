package intervalset

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/quicset/intervalset/interval"
)

func iv(min, max int) interval.Interval[int] { return interval.Make(min, max) }

func mk(pairs ...int) *IntervalSet[int] {
	s := New[int]()
	for i := 0; i < len(pairs); i += 2 {
		s.AddRange(pairs[i], pairs[i+1])
	}
	return s
}

func assertSetEq(t *testing.T, want *IntervalSet[int], got *IntervalSet[int]) {
	t.Helper()
	if diff := cmp.Diff(want.ToSlice(), got.ToSlice()); diff != "" {
		t.Fatalf("sets differ (-want +got):\n%s", diff)
	}
}

// --- end-to-end scenarios, spec.md §8 ---

func TestScenario1AddCoalesces(t *testing.T) {
	s := New[int]()
	s.AddRange(10, 20)
	s.AddRange(30, 40)
	s.AddRange(15, 35)

	assertSetEq(t, mk(10, 40), s)
	require.Equal(t, 1, s.Size())
	require.True(t, s.ContainsRange(10, 40))
	require.False(t, s.ContainsRange(10, 41))
}

func TestScenario2DifferenceInterval(t *testing.T) {
	s := mk(10, 40)
	s.DifferenceRange(10, 20)
	assertSetEq(t, mk(20, 40), s)
}

func TestScenario3FindLowerUpperBound(t *testing.T) {
	s := mk(0, 5, 10, 20, 50, 60)

	got, ok := s.Find(15)
	require.True(t, ok)
	require.Equal(t, iv(10, 20), got)

	_, ok = s.Find(30)
	require.False(t, ok)

	got, ok = s.LowerBound(20)
	require.True(t, ok)
	require.Equal(t, iv(50, 60), got)

	got, ok = s.UpperBound(10)
	require.True(t, ok)
	require.Equal(t, iv(50, 60), got)
}

func TestScenario4Intersection(t *testing.T) {
	a := mk(0, 10, 20, 30)
	b := mk(5, 25)
	a.Intersection(b)
	assertSetEq(t, mk(5, 10, 20, 25), a)
}

func TestScenario5Difference(t *testing.T) {
	a := mk(0, 100)
	b := mk(10, 20, 30, 40, 90, 110)
	a.DifferenceSet(b)
	assertSetEq(t, mk(0, 10, 20, 30, 40, 90), a)
}

func TestScenario6Complement(t *testing.T) {
	a := mk(10, 20, 30, 40)
	a.Complement(0, 50)
	assertSetEq(t, mk(0, 10, 20, 30, 40, 50), a)
}

// --- boundary behaviors, spec.md §8 ---

func TestEmptyIntervalNeverContained(t *testing.T) {
	s := mk(10, 20)
	require.False(t, s.ContainsInterval(iv(15, 15)))
}

func TestContainsSetEmptyArgument(t *testing.T) {
	s := mk(10, 20)
	require.False(t, s.ContainsSet(New[int]()))
}

func TestLowerUpperBoundAtExactMin(t *testing.T) {
	s := mk(10, 20, 30, 40)

	got, ok := s.LowerBound(10)
	require.True(t, ok)
	require.Equal(t, iv(10, 20), got, "LowerBound at an exact min returns that interval")

	got, ok = s.UpperBound(10)
	require.True(t, ok)
	require.Equal(t, iv(30, 40), got, "UpperBound at an exact min returns the next interval")
}

// TestSmallSetLastIntervalLookups covers Find/Contains/IsDisjoint/
// LowerBound/FindInterval on sets small enough to live in a single leaf
// node, for values and intervals that fall within the *last* stored
// interval — the case the "seek past end, then back up one" idiom must get
// right regardless of set size.
func TestSmallSetLastIntervalLookups(t *testing.T) {
	s := mk(0, 5, 10, 20, 50, 60)

	got, ok := s.Find(55)
	require.True(t, ok)
	require.Equal(t, iv(50, 60), got)
	require.True(t, s.Contains(55))

	require.False(t, s.IsDisjoint(iv(55, 65)))

	single := mk(10, 20)
	got, ok = single.LowerBound(15)
	require.True(t, ok)
	require.Equal(t, iv(10, 20), got)

	wide := mk(10, 30)
	require.True(t, wide.ContainsInterval(iv(15, 25)))
	got, ok = wide.FindInterval(iv(15, 25))
	require.True(t, ok)
	require.Equal(t, iv(10, 30), got)
}

// --- property tests, spec.md §8 ---

func TestP1WellFormedAfterRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New[int]()
	for i := 0; i < 500; i++ {
		min := rng.Intn(200)
		max := min + 1 + rng.Intn(20)
		switch rng.Intn(4) {
		case 0:
			s.AddRange(min, max)
		case 1:
			s.AddRangeOptimizedForAppend(min, max)
		case 2:
			s.DifferenceRange(min, max)
		case 3:
			other := New[int]()
			other.AddRange(min, max)
			s.Union(other)
		}
		require.True(t, s.Valid(), "invalid after op %d", i)
	}
}

func TestP2IdempotentAdd(t *testing.T) {
	a := mk(0, 5, 10, 20)
	b := a.Clone()
	a.AddRange(7, 8)
	a.AddRange(7, 8)
	b.AddRange(7, 8)
	assertSetEq(t, b, a)
}

func TestP3UnionCommutativeAssociative(t *testing.T) {
	a := mk(0, 10, 50, 60)
	b := mk(5, 15, 70, 80)
	c := mk(12, 20, 55, 65)

	ab := a.Clone()
	ab.Union(b)
	ba := b.Clone()
	ba.Union(a)
	assertSetEq(t, ab, ba)

	abc1 := a.Clone()
	abc1.Union(b)
	abc1.Union(c)

	bc := b.Clone()
	bc.Union(c)
	abc2 := a.Clone()
	abc2.Union(bc)

	assertSetEq(t, abc1, abc2)
}

func TestP4IntersectionDistributesOverUnion(t *testing.T) {
	a := mk(0, 30)
	b := mk(5, 15, 25, 28)
	c := mk(10, 20)

	bc := b.Clone()
	bc.Union(c)
	lhs := a.Clone()
	lhs.Intersection(bc)

	ab := a.Clone()
	ab.Intersection(b)
	ac := a.Clone()
	ac.Intersection(c)
	rhs := ab
	rhs.Union(ac)

	assertSetEq(t, rhs, lhs)
}

func TestP5DifferenceIdentities(t *testing.T) {
	a := mk(0, 10, 20, 30)

	selfDiff := a.Clone()
	selfDiff.DifferenceSet(a)
	require.True(t, selfDiff.Empty())

	diffEmpty := a.Clone()
	diffEmpty.DifferenceSet(New[int]())
	assertSetEq(t, a, diffEmpty)

	emptyDiff := New[int]()
	emptyDiff.DifferenceSet(a)
	require.True(t, emptyDiff.Empty())
}

func TestP6ComplementInvolution(t *testing.T) {
	a := mk(10, 20, 30, 40)
	want := a.Clone()

	a.Complement(0, 50)
	a.Complement(0, 50)

	assertSetEq(t, want, a)
}

func TestP7ContainsRoundTrip(t *testing.T) {
	s := mk(0, 5, 10, 20, 50, 60)
	for v := -5; v < 65; v++ {
		want := s.Contains(v)
		_, found := s.Find(v)
		require.Equal(t, want, found, "value %d", v)

		var expect bool
		s.ForEach(func(i interval.Interval[int]) bool {
			if i.Contains(v) {
				expect = true
				return false
			}
			return true
		})
		require.Equal(t, expect, want, "value %d", v)
	}
}

func TestP8DisjointExhaustive(t *testing.T) {
	s := mk(0, 5, 10, 20, 50, 60)
	cases := []interval.Interval[int]{iv(5, 10), iv(20, 50), iv(2, 4), iv(18, 25), iv(55, 65), iv(0, 0)}
	for _, c := range cases {
		want := s.IsDisjoint(c)
		inter := s.Clone()
		singleton := NewFromInterval(c)
		inter.Intersection(singleton)
		require.Equal(t, want, inter.Empty(), "interval %v", c)
	}
}

func TestP9AddOptimizedForAppendMatchesAdd(t *testing.T) {
	base := mk(0, 10, 20, 30)
	appended := []interval.Interval[int]{iv(25, 35), iv(35, 40), iv(25, 28)}

	for _, a := range appended {
		want := base.Clone()
		want.Add(a)

		got := base.Clone()
		got.AddOptimizedForAppend(a)

		assertSetEq(t, want, got)
	}
}

// --- additional coverage for operations not exercised by the scenarios above ---

func TestAddMergesAcrossMultipleIntervals(t *testing.T) {
	s := mk(0, 5, 10, 15, 20, 25)
	s.AddRange(4, 21)
	assertSetEq(t, mk(0, 25), s)
}

func TestAddExactDuplicateIsNoop(t *testing.T) {
	s := mk(10, 20)
	s.AddRange(10, 20)
	require.Equal(t, 1, s.Size())
}

func TestAddEmptyIntervalNoop(t *testing.T) {
	s := mk(10, 20)
	s.Add(iv(5, 5))
	assertSetEq(t, mk(10, 20), s)
}

func TestAddOptimizedForAppendFallsThroughToAdd(t *testing.T) {
	s := mk(10, 20)
	s.AddRangeOptimizedForAppend(0, 5)
	assertSetEq(t, mk(0, 5, 10, 20), s)
}

func TestIntersectsAndContainsSet(t *testing.T) {
	a := mk(0, 10, 20, 30)
	b := mk(5, 6)
	require.True(t, a.Intersects(b))
	require.True(t, a.ContainsSet(b))

	c := mk(15, 16)
	require.False(t, a.Intersects(c))
	require.False(t, a.ContainsSet(c))
}

func TestSwapAndClear(t *testing.T) {
	a := mk(0, 10)
	b := mk(20, 30)
	a.Swap(b)
	assertSetEq(t, mk(20, 30), a)
	assertSetEq(t, mk(0, 10), b)

	a.Clear()
	require.True(t, a.Empty())
}

func TestMarshalUnmarshalTextRoundTrip(t *testing.T) {
	s := mk(0, 10, 20, 30)
	text, err := s.MarshalText()
	require.NoError(t, err)

	got := New[int]()
	require.NoError(t, got.UnmarshalText(text))
	assertSetEq(t, s, got)
}

func TestUnmarshalTextRejectsMalformed(t *testing.T) {
	got := New[int]()
	require.Error(t, got.UnmarshalText([]byte("not-an-interval")))
}

func TestStringFormat(t *testing.T) {
	s := mk(10, 20, 30, 40)
	require.Equal(t, "{ [10, 20) [30, 40) }", s.String())
	require.Equal(t, "{ }", New[int]().String())
}

func TestSpanningInterval(t *testing.T) {
	require.True(t, New[int]().SpanningInterval().Empty())
	s := mk(10, 20, 30, 40)
	require.Equal(t, iv(10, 40), s.SpanningInterval())
}

func TestEqual(t *testing.T) {
	a := mk(0, 10, 20, 30)
	b := mk(0, 10, 20, 30)
	c := mk(0, 10, 20, 31)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestCompactIsNoopOnCanonicalSet(t *testing.T) {
	s := mk(0, 10, 20, 30)
	s.Compact()
	assertSetEq(t, mk(0, 10, 20, 30), s)
}

func TestMergeSortedCoalescesOverlappingInput(t *testing.T) {
	got := mergeSorted([]interval.Interval[int]{iv(0, 5), iv(5, 10), iv(8, 15), iv(20, 30)})
	require.Equal(t, []interval.Interval[int]{iv(0, 15), iv(20, 30)}, got)
}
