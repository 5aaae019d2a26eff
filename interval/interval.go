// Package interval defines Interval, a half-open range [Min, Max) over an
// ordered domain.
package interval

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Interval represents the half-open range [Min, Max). It is empty whenever
// Min >= Max; an empty Interval is a valid, zero-cost value, not an error
// state.
type Interval[T constraints.Ordered] struct {
	Min, Max T
}

// Make returns the interval [min, max). It may be empty.
func Make[T constraints.Ordered](min, max T) Interval[T] {
	return Interval[T]{Min: min, Max: max}
}

// Empty reports whether the interval contains no values.
func (iv Interval[T]) Empty() bool {
	return iv.Min >= iv.Max
}

// Contains reports whether v falls within [Min, Max).
func (iv Interval[T]) Contains(v T) bool {
	return iv.Min <= v && v < iv.Max
}

// ContainsInterval reports whether iv wholly contains o, i.e. every value in
// o is also in iv. By convention (see DESIGN.md), an empty o is never
// contained, even by an interval equal to iv.
func (iv Interval[T]) ContainsInterval(o Interval[T]) bool {
	if o.Empty() {
		return false
	}
	return iv.Min <= o.Min && o.Max <= iv.Max
}

// Intersects reports whether iv and o share any value.
func (iv Interval[T]) Intersects(o Interval[T]) bool {
	if iv.Empty() || o.Empty() {
		return false
	}
	return iv.Max > o.Min && o.Max > iv.Min
}

// Intersection reports the overlap between iv and o, if any. ok is false
// (and the returned Interval is the zero value) when iv and o do not
// intersect.
func (iv Interval[T]) Intersection(o Interval[T]) (result Interval[T], ok bool) {
	if !iv.Intersects(o) {
		return Interval[T]{}, false
	}
	min := iv.Min
	if o.Min > min {
		min = o.Min
	}
	max := iv.Max
	if o.Max < max {
		max = o.Max
	}
	return Interval[T]{Min: min, Max: max}, true
}

// Difference returns the parts of iv not covered by o: lo is the portion of
// iv below o, hi is the portion of iv above o. Either, or both, may be
// empty.
func (iv Interval[T]) Difference(o Interval[T]) (lo, hi Interval[T]) {
	loMax := iv.Max
	if o.Min < loMax {
		loMax = o.Min
	}
	lo = Interval[T]{Min: iv.Min, Max: loMax}

	hiMin := iv.Min
	if o.Max > hiMin {
		hiMin = o.Max
	}
	hi = Interval[T]{Min: hiMin, Max: iv.Max}
	return lo, hi
}

// SetMin mutates the interval's lower endpoint in place.
func (iv *Interval[T]) SetMin(min T) {
	iv.Min = min
}

// SetMax mutates the interval's upper endpoint in place.
func (iv *Interval[T]) SetMax(max T) {
	iv.Max = max
}

// Equal reports member-wise equality of Min and Max.
func (iv Interval[T]) Equal(o Interval[T]) bool {
	return iv.Min == o.Min && iv.Max == o.Max
}

// Less implements the ordering used by intervalset's internal index:
// ascending Min, with ties broken by descending Max. See spec.md §4.2 for
// why the tie-break must run in this direction.
func (iv Interval[T]) Less(o Interval[T]) bool {
	return iv.Min < o.Min || (iv.Min == o.Min && iv.Max > o.Max)
}

// String renders the interval as "[min, max)", or "[]" when empty.
func (iv Interval[T]) String() string {
	if iv.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%v, %v)", iv.Min, iv.Max)
}
