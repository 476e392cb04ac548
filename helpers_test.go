package ggchart

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

const epsilon = 1e-9

// near reports whether a and b agree within epsilon relative tolerance.
func near(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= epsilon*scale
}

// flatItems returns n lines at value v.
func flatItems(n int, v float64) Items {
	items := make(Items, n)
	for i := range items {
		items[i] = Line{Value: v}
	}
	return items
}

// extents returns an ExtentProvider answering from a map.
func extents(m map[int]Bound[float64]) ExtentProvider {
	return ExtentFunc(func(i int) (Bound[float64], bool) {
		b, ok := m[i]
		return b, ok
	})
}

// fakeEngine counts the primitives it is asked to draw.
type fakeEngine struct {
	mu     sync.Mutex
	w, h   int
	clears int
	lines  int
	boxes  int
	circle int
	shapes int
	texts  []string
	closed bool

	// block, when set, stalls Clear until it is closed.
	block   chan struct{}
	entered atomic.Int32
}

func newFakeEngine(w, h int) *fakeEngine {
	return &fakeEngine{w: w, h: h}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeEngine) Resize(w, h int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.w, f.h = w, h
	return nil
}

func (f *fakeEngine) Clear() {
	f.entered.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeEngine) DrawLine([]Point, Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines++
}

func (f *fakeEngine) DrawBox([]Point, Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boxes++
}

func (f *fakeEngine) DrawCircle(Point, float64, Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.circle++
}

func (f *fakeEngine) DrawShape([]Point, Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shapes++
}

func (f *fakeEngine) DrawText(_ Point, text string, _ Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func (f *fakeEngine) MeasureText(text string, size float64) Point {
	return Point{X: float64(len(text)) * size * 0.6, Y: size}
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// wait waits for p with a background context.
func wait(p *Pending) error {
	return p.Wait(context.Background())
}
