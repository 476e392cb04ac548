package ggchart

import "fmt"

// Number is the set of coordinate types a Bound can hold.
type Number interface {
	~int | ~float64
}

// Bound is a closed [Min, Max] interval on one axis. For indices the upper
// bound is exclusive when iterating items.
type Bound[T Number] struct {
	Min, Max T
}

// B is a convenience function to create a Bound.
func B[T Number](lo, hi T) Bound[T] {
	return Bound[T]{Min: lo, Max: hi}
}

// Span returns Max - Min.
func (b Bound[T]) Span() T {
	return b.Max - b.Min
}

// Degenerate reports whether the bound collapses to a single point.
func (b Bound[T]) Degenerate() bool {
	return b.Min == b.Max
}

// Valid reports whether Min does not exceed Max.
func (b Bound[T]) Valid() bool {
	return b.Min <= b.Max
}

// Contains reports whether v lies inside the closed interval.
func (b Bound[T]) Contains(v T) bool {
	return v >= b.Min && v <= b.Max
}

func (b Bound[T]) String() string {
	return fmt.Sprintf("[%v, %v]", b.Min, b.Max)
}

// Span is the per-axis override of a Domain: either an explicit range set
// by the user (zoom, pan, caller supplied) or Auto, in which case the
// computed range is used. The zero value is Auto.
type Span[T Number] struct {
	bound    Bound[T]
	explicit bool
}

// Explicit returns a Span pinned to [lo, hi].
func Explicit[T Number](lo, hi T) Span[T] {
	return Span[T]{bound: Bound[T]{Min: lo, Max: hi}, explicit: true}
}

// ExplicitBound returns a Span pinned to b.
func ExplicitBound[T Number](b Bound[T]) Span[T] {
	return Span[T]{bound: b, explicit: true}
}

// Auto returns a Span that follows the computed range.
func Auto[T Number]() Span[T] {
	return Span[T]{}
}

// IsAuto reports whether the span follows the computed range.
func (s Span[T]) IsAuto() bool {
	return !s.explicit
}

// Bound returns the explicit bound and true, or the zero bound and false
// for an Auto span.
func (s Span[T]) Bound() (Bound[T], bool) {
	return s.bound, s.explicit
}

// Resolve returns the explicit bound, or fallback when the span is Auto.
func (s Span[T]) Resolve(fallback Bound[T]) Bound[T] {
	if s.explicit {
		return s.bound
	}
	return fallback
}

func (s Span[T]) String() string {
	if !s.explicit {
		return "auto"
	}
	return s.bound.String()
}

// Domain is the visible window in data space. It is a value: operations
// return a new Domain and never modify their input.
type Domain struct {
	// Index is the user override of the visible item window.
	Index Span[int]
	// Value is the user override of the visible value range.
	Value Span[float64]
	// AutoIndex covers every item; recomputed on each update.
	AutoIndex Bound[int]
	// AutoValue is the auto-scaled value range; recomputed on each update.
	AutoValue Bound[float64]
}

// IndexBound returns the resolved index window.
func (d Domain) IndexBound() Bound[int] {
	return d.Index.Resolve(d.AutoIndex)
}

// ValueBound returns the resolved value range.
func (d Domain) ValueBound() Bound[float64] {
	return d.Value.Resolve(d.AutoValue)
}

// MinIndex returns the first visible index.
func (d Domain) MinIndex() int {
	return d.IndexBound().Min
}

// MaxIndex returns the end of the visible index window (exclusive).
func (d Domain) MaxIndex() int {
	return d.IndexBound().Max
}

// MinValue returns the lower bound of the visible value range.
func (d Domain) MinValue() float64 {
	return d.ValueBound().Min
}

// MaxValue returns the upper bound of the visible value range.
func (d Domain) MaxValue() float64 {
	return d.ValueBound().Max
}

// WithIndex returns a copy of d with an explicit index window.
func (d Domain) WithIndex(b Bound[int]) Domain {
	d.Index = ExplicitBound(b)
	return d
}

// WithValue returns a copy of d with an explicit value range.
func (d Domain) WithValue(b Bound[float64]) Domain {
	d.Value = ExplicitBound(b)
	return d
}

// WithAutoValue returns a copy of d whose value range follows auto-scale.
func (d Domain) WithAutoValue() Domain {
	d.Value = Auto[float64]()
	return d
}

// WithAutoIndex returns a copy of d whose index window covers all items.
func (d Domain) WithAutoIndex() Domain {
	d.Index = Auto[int]()
	return d
}

func (d Domain) String() string {
	return fmt.Sprintf("index=%v value=%v", d.IndexBound(), d.ValueBound())
}
