// Package intervalset implements IntervalSet, a canonical, minimal
// collection of half-open, pairwise-disjoint, non-adjacent intervals over
// an ordered domain. It is the Go analog of QUICHE's QuicIntervalSet, used
// to track which byte offsets or packet numbers have been seen, acked, or
// are missing.
package intervalset

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/quicset/intervalset/interval"
	"github.com/quicset/intervalset/internal/ordset"
)

// debugAssertions gates the Valid() invariant checks that run at the end of
// every mutator. It mirrors the teacher corpus's DCHECK-style debug-only
// assertions (spec.md §7); Go has no release/debug preprocessor split, so
// this is a plain unexported package var, true by default, that this
// package's own tests can set to false.
var debugAssertions = true

// IntervalSet is an ordered, canonical set of half-open intervals over T.
// The underlying internal/ordset.Tree gives O(log n) point lookups
// (Find, Contains, LowerBound, UpperBound); bulk set algebra (Union,
// Intersection, Difference, Complement) is computed over a flat snapshot
// and the result rebuilt into the tree in one pass, and Add first collects
// the intervals it touches into a slice and only then deletes and
// reinserts, since those algorithms must mutate while walking and
// internal/ordset iterators do not tolerate mutation mid-traversal (see its
// Iterator doc comment). The zero value is a valid empty set.
type IntervalSet[T constraints.Ordered] struct {
	t ordset.Tree[interval.Interval[T]]
}

// New returns an empty IntervalSet.
func New[T constraints.Ordered]() *IntervalSet[T] {
	return &IntervalSet[T]{}
}

// NewFromInterval returns an IntervalSet containing exactly iv, unless iv is
// empty, in which case the set is empty.
func NewFromInterval[T constraints.Ordered](iv interval.Interval[T]) *IntervalSet[T] {
	s := New[T]()
	s.Add(iv)
	return s
}

// NewFromRange returns an IntervalSet containing the half-open interval
// [min, max).
func NewFromRange[T constraints.Ordered](min, max T) *IntervalSet[T] {
	return NewFromInterval(interval.Make(min, max))
}

// NewFromSlice returns an IntervalSet containing every interval in ivs.
func NewFromSlice[T constraints.Ordered](ivs []interval.Interval[T]) *IntervalSet[T] {
	s := New[T]()
	s.Assign(ivs)
	return s
}

// Assign replaces the set's contents by Add-ing every interval in ivs.
func (s *IntervalSet[T]) Assign(ivs []interval.Interval[T]) {
	s.Clear()
	for _, iv := range ivs {
		s.Add(iv)
	}
}

// Clear empties the set.
func (s *IntervalSet[T]) Clear() {
	s.t.Clear()
}

// Empty reports whether the set has no intervals.
func (s *IntervalSet[T]) Empty() bool {
	return s.t.Len() == 0
}

// Size returns the number of disjoint intervals in the set.
func (s *IntervalSet[T]) Size() int {
	return s.t.Len()
}

// SpanningInterval returns the smallest interval containing every interval
// in the set, or the empty interval if the set is empty.
func (s *IntervalSet[T]) SpanningInterval() interval.Interval[T] {
	if s.Empty() {
		return interval.Interval[T]{}
	}
	first := s.t.MakeIter()
	first.First()
	last := s.t.MakeIter()
	last.Last()
	return interval.Make(first.Cur().Min, last.Cur().Max)
}

// rebuild replaces the tree's contents with exactly the intervals in ivs,
// which must already be canonical (ascending, disjoint, non-adjacent,
// non-empty) — callers are responsible for having produced that via
// mergeSorted or an equivalent merge.
func (s *IntervalSet[T]) rebuild(ivs []interval.Interval[T]) {
	s.t.Clear()
	for _, iv := range ivs {
		s.t.Insert(iv)
	}
	s.checkValid()
}

// toSliceRaw returns every stored interval in ascending order, uncoalesced
// (the tree is always already canonical, so this is just a walk).
func (s *IntervalSet[T]) toSliceRaw() []interval.Interval[T] {
	out := make([]interval.Interval[T], 0, s.Size())
	it := s.t.MakeIter()
	for it.First(); it.Valid(); it.Next() {
		out = append(out, it.Cur())
	}
	return out
}

// mergeSorted merges an ascending-by-Min (not necessarily disjoint) list of
// non-empty intervals into canonical form: sorted, pairwise-disjoint,
// non-adjacent. This is spec.md §4.5's Compact, expressed over a slice
// rather than over live tree iterators so that it is correct regardless of
// how much the input overlaps.
func mergeSorted[T constraints.Ordered](ivs []interval.Interval[T]) []interval.Interval[T] {
	if len(ivs) == 0 {
		return nil
	}
	out := make([]interval.Interval[T], 0, len(ivs))
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		if iv.Empty() {
			continue
		}
		if cur.Max >= iv.Min {
			if iv.Max > cur.Max {
				cur.SetMax(iv.Max)
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	out = append(out, cur)
	return out
}

// sortByMin sorts ivs ascending by Min, using insertion sort: the call
// sites only ever sort the handful of intervals touched by a single Add,
// so an O(n^2) sort on a tiny slice is simpler than importing sort for it.
func sortByMin[T constraints.Ordered](ivs []interval.Interval[T]) {
	for i := 1; i < len(ivs); i++ {
		for j := i; j > 0 && ivs[j].Min < ivs[j-1].Min; j-- {
			ivs[j], ivs[j-1] = ivs[j-1], ivs[j]
		}
	}
}

// Add adds iv to the set, coalescing it with any overlapping or adjacent
// intervals already present. Adding an empty interval is a no-op. See
// spec.md §4.4.
func (s *IntervalSet[T]) Add(iv interval.Interval[T]) {
	if iv.Empty() {
		return
	}

	// Find every stored interval that overlaps or abuts iv: scan from the
	// first interval whose Max could reach iv.Min through the first whose
	// Min is strictly past iv.Max. SeekGE(probe) lands strictly after any
	// stored interval sharing iv.Min (Less ties break by descending Max,
	// so a same-Min stored interval always sorts before the empty probe),
	// so the predecessor — found via Prev when SeekGE landed on something,
	// or Last when it ran off the end — is the only position that could
	// still have been skipped.
	it := s.t.MakeIter()
	it.SeekGE(interval.Make(iv.Min, iv.Min))

	pred := s.t.MakeIter()
	if it.Valid() {
		first := s.t.MakeIter()
		first.First()
		if !sameIterPos(it, first) {
			pred = it
			pred.Prev()
		}
	} else {
		pred.Last()
	}
	if pred.Valid() && pred.Cur().Max >= iv.Min {
		it = pred
	}

	var touched []interval.Interval[T]
	for it.Valid() && it.Cur().Min <= iv.Max {
		touched = append(touched, it.Cur())
		it.Next()
	}

	for _, t := range touched {
		s.t.Delete(t)
	}
	touched = append(touched, iv)
	sortByMin(touched)
	for _, m := range mergeSorted(touched) {
		s.t.Insert(m)
	}
	s.checkValid()
}

// AddRange adds the interval [min, max).
func (s *IntervalSet[T]) AddRange(min, max T) {
	s.Add(interval.Make(min, max))
}

// AddOptimizedForAppend has the same effect as Add, but when iv extends the
// set's current rightmost interval — the common case for sequential,
// in-order QUIC byte-offset/packet-number tracking — it skips Add's
// neighbor search and only replaces that last interval (still O(log n) for
// the Delete/Insert pair). See spec.md §4.4.
func (s *IntervalSet[T]) AddOptimizedForAppend(iv interval.Interval[T]) {
	if iv.Empty() {
		return
	}
	if s.Empty() {
		s.Add(iv)
		return
	}
	last := s.t.MakeIter()
	last.Last()
	l := last.Cur()

	if iv.Min < l.Min || iv.Min > l.Max {
		s.Add(iv)
		return
	}
	if iv.Max <= l.Max {
		return
	}

	// l is the last stored interval and its Min is unchanged, so replacing
	// it with a copy whose Max is extended cannot violate ordering or create
	// an adjacency with a (nonexistent) right neighbor.
	extended := l
	extended.SetMax(iv.Max)
	s.t.Delete(l)
	s.t.Insert(extended)
	s.checkValid()
}

// AddRangeOptimizedForAppend adds [min, max) with the AddOptimizedForAppend
// fast path.
func (s *IntervalSet[T]) AddRangeOptimizedForAppend(min, max T) {
	s.AddOptimizedForAppend(interval.Make(min, max))
}

// Compact re-coalesces the entire set. Because Add and Union already
// maintain canonical form after every call, callers never need this in
// ordinary use; it exists for parity with spec.md §4.5. Every exported
// mutator (UnmarshalText included, which goes through Add) leaves the set
// canonical, so on such a set Compact leaves the contents unchanged.
func (s *IntervalSet[T]) Compact() {
	s.rebuild(mergeSorted(s.toSliceRaw()))
}

// Union merges every interval of other into s. See spec.md §4.6.
func (s *IntervalSet[T]) Union(other *IntervalSet[T]) {
	a := s.toSliceRaw()
	b := other.toSliceRaw()
	merged := mergeTwoSorted(a, b)
	s.rebuild(mergeSorted(merged))
}

// mergeTwoSorted interleaves two ascending, individually-canonical slices
// into one ascending (but not yet coalesced) slice.
func mergeTwoSorted[T constraints.Ordered](a, b []interval.Interval[T]) []interval.Interval[T] {
	out := make([]interval.Interval[T], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Min <= b[j].Min {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Find returns the interval containing value and true, or the zero
// Interval and false if no stored interval contains it.
func (s *IntervalSet[T]) Find(value T) (interval.Interval[T], bool) {
	probe := interval.Make(value, value)
	it := s.t.MakeIter()
	it.SeekGT(probe)
	if !stepBack(&it, s) {
		return interval.Interval[T]{}, false
	}
	if it.Cur().Contains(value) {
		return it.Cur(), true
	}
	return interval.Interval[T]{}, false
}

// FindInterval returns the interval that wholly contains iv, and true, or
// the zero Interval and false if no stored interval does (including when iv
// itself is empty).
func (s *IntervalSet[T]) FindInterval(iv interval.Interval[T]) (interval.Interval[T], bool) {
	if iv.Empty() {
		return interval.Interval[T]{}, false
	}
	it := s.t.MakeIter()
	it.SeekGT(iv)
	if !stepBack(&it, s) {
		return interval.Interval[T]{}, false
	}
	if it.Cur().ContainsInterval(iv) {
		return it.Cur(), true
	}
	return interval.Interval[T]{}, false
}

// stepBack decrements it by one position, reporting whether it was not
// already at the beginning of s. This implements the decrement-after-
// upper_bound idiom spec.md §4.7 describes for Find/Contains.
func stepBack[T constraints.Ordered](it *ordset.Iterator[interval.Interval[T]], s *IntervalSet[T]) bool {
	first := s.t.MakeIter()
	first.First()
	if sameIterPos(*it, first) {
		return false
	}
	it.Prev()
	return true
}

// sameIterPos reports whether two iterators over the same tree are
// positioned identically, treating "both invalid" (e.g. both at end) as
// equal. ordset.Iterator has no exposed identity comparison, so position is
// compared via Valid()/Cur() instead.
func sameIterPos[T ordset.Item[T]](a, b ordset.Iterator[T]) bool {
	if a.Valid() != b.Valid() {
		return false
	}
	if !a.Valid() {
		return true
	}
	return !a.Cur().Less(b.Cur()) && !b.Cur().Less(a.Cur())
}

// LowerBound returns the first stored interval that contains, or lies
// entirely after, value.
func (s *IntervalSet[T]) LowerBound(value T) (interval.Interval[T], bool) {
	probe := interval.Make(value, value)
	lb := s.t.MakeIter()
	lb.SeekGE(probe)

	first := s.t.MakeIter()
	first.First()
	if sameIterPos(lb, first) {
		if lb.Valid() {
			return lb.Cur(), true
		}
		return interval.Interval[T]{}, false
	}

	pred := lb
	pred.Prev()
	if pred.Cur().Contains(value) {
		return pred.Cur(), true
	}
	if lb.Valid() {
		return lb.Cur(), true
	}
	return interval.Interval[T]{}, false
}

// UpperBound returns the first stored interval strictly after value.
func (s *IntervalSet[T]) UpperBound(value T) (interval.Interval[T], bool) {
	probe := interval.Make(value, value)
	it := s.t.MakeIter()
	it.SeekGT(probe)
	if it.Valid() {
		return it.Cur(), true
	}
	return interval.Interval[T]{}, false
}

// Contains reports whether any interval in the set contains value.
func (s *IntervalSet[T]) Contains(value T) bool {
	_, ok := s.Find(value)
	return ok
}

// ContainsInterval reports whether some interval in the set wholly contains
// iv. Per the convention documented in spec.md §9, this returns false when
// iv is empty.
func (s *IntervalSet[T]) ContainsInterval(iv interval.Interval[T]) bool {
	_, ok := s.FindInterval(iv)
	return ok
}

// ContainsRange reports whether some interval in the set wholly contains
// [min, max).
func (s *IntervalSet[T]) ContainsRange(min, max T) bool {
	return s.ContainsInterval(interval.Make(min, max))
}

// ContainsSet reports whether every interval of other is wholly contained
// in some interval of s. Per spec.md §4.8, this returns false if other is
// empty. Complexity is O(other.Size() * log(s.Size())).
func (s *IntervalSet[T]) ContainsSet(other *IntervalSet[T]) bool {
	if other.Empty() {
		return false
	}
	if !s.SpanningInterval().ContainsInterval(other.SpanningInterval()) {
		return false
	}
	ok := true
	other.ForEach(func(iv interval.Interval[T]) bool {
		if !s.ContainsInterval(iv) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// IsDisjoint reports whether no value in iv is contained in s. An empty iv
// is always considered disjoint, even though s never Contains() it either.
func (s *IntervalSet[T]) IsDisjoint(iv interval.Interval[T]) bool {
	if iv.Empty() {
		return true
	}
	probe := interval.Make(iv.Min, iv.Min)
	it := s.t.MakeIter()
	it.SeekGT(probe)
	if it.Valid() && iv.Max > it.Cur().Min {
		return false
	}
	first := s.t.MakeIter()
	first.First()
	if sameIterPos(it, first) {
		return true
	}
	it.Prev()
	return it.Cur().Max <= iv.Min
}

// Intersects reports whether s and other share any value.
func (s *IntervalSet[T]) Intersects(other *IntervalSet[T]) bool {
	if !s.SpanningInterval().Intersects(other.SpanningInterval()) {
		return false
	}
	a := s.toSliceRaw()
	b := other.toSliceRaw()
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Intersects(b[j]) {
			return true
		}
		if a[i].Max <= b[j].Min {
			i++
		} else {
			j++
		}
	}
	return false
}

// Intersection mutates s to contain only the values present in both s and
// other. See spec.md §4.9.
func (s *IntervalSet[T]) Intersection(other *IntervalSet[T]) {
	a := s.toSliceRaw()
	b := other.toSliceRaw()
	var out []interval.Interval[T]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if inter, ok := a[i].Intersection(b[j]); ok {
			out = append(out, inter)
		}
		if a[i].Max <= b[j].Max {
			i++
		} else {
			j++
		}
	}
	s.rebuild(out)
}

// Difference mutates s to remove every value also present in iv.
func (s *IntervalSet[T]) Difference(iv interval.Interval[T]) {
	if iv.Empty() {
		return
	}
	s.DifferenceSet(NewFromInterval(iv))
}

// DifferenceRange mutates s to remove every value in [min, max).
func (s *IntervalSet[T]) DifferenceRange(min, max T) {
	s.Difference(interval.Make(min, max))
}

// DifferenceSet mutates s to remove every value also present in other. See
// spec.md §4.10.
func (s *IntervalSet[T]) DifferenceSet(other *IntervalSet[T]) {
	if !s.SpanningInterval().Intersects(other.SpanningInterval()) {
		return
	}
	a := s.toSliceRaw()
	b := other.toSliceRaw()
	var out []interval.Interval[T]
	i, j := 0, 0
	for i < len(a) {
		cur := a[i]
		for j < len(b) && b[j].Max <= cur.Min {
			j++
		}
		if j >= len(b) || b[j].Min >= cur.Max {
			out = append(out, cur)
			i++
			continue
		}
		lo, _ := cur.Difference(b[j])
		if !lo.Empty() {
			out = append(out, lo)
		}
		if b[j].Max >= cur.Max {
			i++
			continue
		}
		cur.SetMin(b[j].Max)
		a[i] = cur
	}
	s.rebuild(out)
}

// Complement mutates s to contain exactly the values in [min, max) that are
// not currently in s. See spec.md §4.11.
func (s *IntervalSet[T]) Complement(min, max T) {
	span := NewFromRange[T](min, max)
	span.DifferenceSet(s)
	s.t.Swap(&span.t)
}

// Equal reports whether s and other contain exactly the same intervals, in
// the same order. Because IntervalSet always maintains the canonical form
// (invariant I3), this is equivalent to set equality — there is no
// differently-coalesced representation to normalize away.
func (s *IntervalSet[T]) Equal(other *IntervalSet[T]) bool {
	if s.Size() != other.Size() {
		return false
	}
	a := s.t.MakeIter()
	b := other.t.MakeIter()
	for a.First(); a.Valid(); a.Next() {
		b.Next()
		if !a.Cur().Equal(b.Cur()) {
			return false
		}
	}
	return true
}

// ForEach calls f with every interval in ascending order, stopping early if
// f returns false.
func (s *IntervalSet[T]) ForEach(f func(interval.Interval[T]) bool) {
	it := s.t.MakeIter()
	for it.First(); it.Valid(); it.Next() {
		if !f(it.Cur()) {
			return
		}
	}
}

// ToSlice returns every interval in ascending order as a freshly allocated
// slice.
func (s *IntervalSet[T]) ToSlice() []interval.Interval[T] {
	return s.toSliceRaw()
}

// Swap exchanges the contents of s and other in O(1).
func (s *IntervalSet[T]) Swap(other *IntervalSet[T]) {
	s.t.Swap(&other.t)
}

// Clone returns an independent deep copy of s.
func (s *IntervalSet[T]) Clone() *IntervalSet[T] {
	c := New[T]()
	for _, iv := range s.toSliceRaw() {
		c.t.Insert(iv)
	}
	return c
}

// String renders the set as "{ [a1, b1) [a2, b2) ... }", for debugging.
// This is not a stable wire format; see MarshalText for round-tripping.
func (s *IntervalSet[T]) String() string {
	var b strings.Builder
	b.WriteString("{")
	s.ForEach(func(iv interval.Interval[T]) bool {
		b.WriteString(" ")
		b.WriteString(iv.String())
		return true
	})
	b.WriteString(" }")
	return b.String()
}

// MarshalText renders s as a space-separated list of "[min, max)" terms. It
// is intended for human-readable round-tripping (logs, config fixtures),
// not as a stable wire protocol — spec.md explicitly excludes persistence
// from this container's concerns.
func (s *IntervalSet[T]) MarshalText() ([]byte, error) {
	var terms []string
	s.ForEach(func(iv interval.Interval[T]) bool {
		terms = append(terms, iv.String())
		return true
	})
	return []byte(strings.Join(terms, " ")), nil
}

// UnmarshalText parses the grammar produced by MarshalText: zero or more
// "[min, max)" terms separated by whitespace. T must be parseable by
// strconv (integer or float); for other domains, build the set with Add
// instead.
func (s *IntervalSet[T]) UnmarshalText(text []byte) error {
	s.Clear()
	rest := strings.TrimSpace(string(text))
	for rest != "" {
		// Each term ends at its closing ")"; the ", " inside a term is not a
		// separator.
		end := strings.IndexByte(rest, ')') + 1
		if end == 0 {
			end = len(rest)
		}
		f := rest[:end]
		rest = strings.TrimSpace(rest[end:])
		iv, err := parseIntervalTerm[T](f)
		if err != nil {
			return errors.Wrapf(err, "intervalset: parsing %q", f)
		}
		s.Add(iv)
	}
	return nil
}

func parseIntervalTerm[T constraints.Ordered](term string) (interval.Interval[T], error) {
	term = strings.TrimSpace(term)
	if !strings.HasPrefix(term, "[") || !strings.HasSuffix(term, ")") {
		return interval.Interval[T]{}, errors.Errorf("malformed interval term %q", term)
	}
	body := term[1 : len(term)-1]
	parts := strings.SplitN(body, ",", 2)
	if len(parts) != 2 {
		return interval.Interval[T]{}, errors.Errorf("malformed interval term %q", term)
	}
	min, err := parseOrdered[T](strings.TrimSpace(parts[0]))
	if err != nil {
		return interval.Interval[T]{}, err
	}
	max, err := parseOrdered[T](strings.TrimSpace(parts[1]))
	if err != nil {
		return interval.Interval[T]{}, err
	}
	return interval.Make(min, max), nil
}

// parseOrdered parses a single endpoint for the integer, float, and string
// instantiations of T that intervalset is realistically used with.
func parseOrdered[T constraints.Ordered](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(s).(T), nil
	case float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, err
		}
		return any(float32(v)).(T), nil
	case float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case int:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return any(int(v)).(T), nil
	case int8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return zero, err
		}
		return any(int8(v)).(T), nil
	case int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return zero, err
		}
		return any(int16(v)).(T), nil
	case int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return zero, err
		}
		return any(int32(v)).(T), nil
	case int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case uint:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return any(uint(v)).(T), nil
	case uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return zero, err
		}
		return any(uint8(v)).(T), nil
	case uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return zero, err
		}
		return any(uint16(v)).(T), nil
	case uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return zero, err
		}
		return any(uint32(v)).(T), nil
	case uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	default:
		return zero, errors.Errorf("intervalset: unsupported endpoint type for %q", s)
	}
}

// checkValid panics if s's invariants (I1-I4) are violated. It is a
// programmer-error assertion, not a recoverable runtime error — see
// spec.md §7 and DESIGN.md.
func (s *IntervalSet[T]) checkValid() {
	if !debugAssertions {
		return
	}
	if !s.Valid() {
		panic(errors.Errorf("intervalset: invariant violated: %s", s.String()))
	}
}

// Valid reports whether s's invariants (I1-I4) currently hold: every stored
// interval is non-empty, and consecutive intervals are strictly ordered,
// disjoint, and non-adjacent.
func (s *IntervalSet[T]) Valid() bool {
	var prev interval.Interval[T]
	havePrev := false
	valid := true
	s.ForEach(func(iv interval.Interval[T]) bool {
		if iv.Empty() {
			valid = false
			return false
		}
		if havePrev && prev.Max >= iv.Min {
			valid = false
			return false
		}
		prev = iv
		havePrev = true
		return true
	})
	return valid
}
