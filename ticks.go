package ggchart

import (
	"iter"
	"math"
)

// Tick is a labeled reference position along one axis.
type Tick struct {
	// Value is the data coordinate of the tick (an index or a value).
	Value float64
	// Position is the pixel coordinate along the axis: X for index ticks,
	// Y for value ticks.
	Position float64
	// Label is the formatted Value.
	Label string
}

// IndexTicks returns the index ticks for the mapper's domain. Ticks are
// spaced by the index range divided by count (truncated to a whole number of
// items) and walk outwards from the center of the window. Only ticks
// strictly inside the window are produced. The sequence is computed lazily
// and can be iterated any number of times.
//
// A negative count panics; zero yields no ticks. A nil format uses
// DefaultFormatter.
func IndexTicks(m Mapper, count int, format Formatter) iter.Seq[Tick] {
	if count < 0 {
		panic("ggchart: negative index tick count")
	}
	if format == nil {
		format = DefaultFormatter
	}

	ib := m.Domain.IndexBound()
	lo, hi := float64(ib.Min), float64(ib.Max)
	span := hi - lo
	center := math.RoundToEven(lo + span/2)

	step := 0.0
	if count > 0 {
		step = math.Trunc(span / float64(count))
	}

	return outward(lo, hi, center, step, math.Min(float64(count), span), func(v float64) Tick {
		return Tick{Value: v, Position: m.X(v), Label: format(v)}
	})
}

// ValueTicks returns the value ticks for the mapper's domain. It mirrors
// IndexTicks over the resolved value range with an unrounded center and
// step, walking at most min(count, span) steps to each side, so ranges
// narrower than one unit only get the center tick. Position is the Y pixel
// coordinate.
func ValueTicks(m Mapper, count int, format Formatter) iter.Seq[Tick] {
	if count < 0 {
		panic("ggchart: negative value tick count")
	}
	if format == nil {
		format = DefaultFormatter
	}

	vb := m.Domain.ValueBound()
	span := vb.Max - vb.Min
	center := vb.Min + span/2

	step := 0.0
	if count > 0 {
		step = span / float64(count)
	}

	return outward(vb.Min, vb.Max, center, step, math.Min(float64(count), span), func(v float64) Tick {
		return Tick{Value: v, Position: m.Y(v), Label: format(v)}
	})
}

// outward yields center, center-step, center+step, center-2*step, ... for
// up to limit steps on each side, skipping everything outside (lo, hi).
// A zero step produces the center alone.
func outward(lo, hi, center, step, limit float64, tick func(float64) Tick) iter.Seq[Tick] {
	inside := func(v float64) bool {
		return v > lo && v < hi
	}

	return func(yield func(Tick) bool) {
		if limit <= 0 && step == 0 {
			return
		}
		if inside(center) && !yield(tick(center)) {
			return
		}
		if step <= 0 {
			return
		}
		for i := 1.0; i <= limit; i++ {
			if v := center - i*step; inside(v) && !yield(tick(v)) {
				return
			}
			if v := center + i*step; inside(v) && !yield(tick(v)) {
				return
			}
		}
	}
}
