// Package sample generates a random OHLC price series and turns it into
// chart items for the demo command.
package sample

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/ggchart"
)

// Visible is the number of trailing items kept on screen while following
// the feed.
const Visible = 100

// Candle is one OHLC sample.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Up reports whether the candle closed at or above its open.
func (c Candle) Up() bool {
	return c.Close >= c.Open
}

// Feed is a random walk of candles. It is safe for concurrent use.
type Feed struct {
	mu      sync.Mutex
	rng     *rand.Rand
	price   float64
	vol     float64
	step    time.Duration
	next    time.Time
	candles []Candle
}

// NewFeed returns a feed starting at price with the given relative
// volatility per candle. Candles are step apart starting at start. The same
// seed produces the same series.
func NewFeed(seed uint64, start time.Time, price, vol float64, step time.Duration) *Feed {
	if step <= 0 {
		step = time.Minute
	}
	return &Feed{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		price: price,
		vol:   vol,
		step:  step,
		next:  start,
	}
}

// Next appends a candle and returns it.
func (f *Feed) Next() Candle {
	f.mu.Lock()
	defer f.mu.Unlock()

	open := f.price
	ret := (f.rng.Float64() - 0.5) * 2 * f.vol
	closing := open * (1 + ret)
	c := Candle{
		Time:   f.next,
		Open:   open,
		High:   max(open, closing) * (1 + f.rng.Float64()*f.vol*0.5),
		Low:    min(open, closing) * (1 - f.rng.Float64()*f.vol*0.5),
		Close:  closing,
		Volume: 10_000 + f.rng.Float64()*5_000,
	}
	f.candles = append(f.candles, c)
	f.price = closing
	f.next = f.next.Add(f.step)
	return c
}

// Fill appends n candles.
func (f *Feed) Fill(n int) {
	for range n {
		f.Next()
	}
}

// Len returns the number of candles produced so far.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.candles)
}

// Candles returns a copy of the series.
func (f *Feed) Candles() []Candle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Candle, len(f.candles))
	copy(out, f.candles)
	return out
}

// Stamp returns the time of the candle at index.
func (f *Feed) Stamp(index int) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.candles) {
		return time.Time{}, false
	}
	return f.candles[index].Time, true
}

// Formatter returns an index formatter printing candle times with layout.
func (f *Feed) Formatter(layout string) ggchart.Formatter {
	return ggchart.TimeFormatter(f.Stamp, f.Len, layout)
}

// Run appends a candle every interval and calls fn with it until ctx is
// done.
func (f *Feed) Run(ctx context.Context, interval time.Duration, fn func(Candle)) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			c := f.Next()
			if fn != nil {
				fn(c)
			}
		}
	}
}

// Window returns the index window ending at the last of count items and
// spanning visible items. While the series is shorter than visible the
// window starts before the first item, keeping the item width constant.
func Window(count, visible int) ggchart.Bound[int] {
	return ggchart.B(count-visible, count)
}
