package ggchart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// State is the externally visible render state of a Composer.
type State int32

const (
	// Idle means no render is in flight.
	Idle State = iota
	// Rendering means a render is scheduled or running.
	Rendering
)

func (s State) String() string {
	if s == Rendering {
		return "rendering"
	}
	return "idle"
}

// renderKey is the singleflight key of the frame render.
const renderKey = "frame"

// Composer owns the domain, the items and the engine of one chart pane and
// exposes the interaction API. All methods are safe for concurrent use.
//
// Every change of the domain goes through Update, which recomputes the
// automatic bounds, notifies observers and schedules a render. Renders are
// coalesced: updates made while a render is in flight join it, and the
// render repeats until it has drawn the latest domain.
type Composer struct {
	name      string
	cfg       Config
	reducer   Reducer
	zoomMod   Modifiers
	showIndex Formatter
	showValue Formatter
	grid      Grid
	presenter Presenter

	mu         sync.Mutex
	domain     Domain
	items      Items
	engine     Engine
	gesture    gestureState
	observers  []func(Domain, string)
	generation uint64

	renderMu sync.Mutex
	flight   singleflight.Group
	state    atomic.Int32
	rendered atomic.Uint64
}

// NewComposer creates a Composer with an empty domain and no items.
// Invalid configuration panics; validate loaded configs with
// Config.Validate or LoadConfig first.
func NewComposer(opts ...Option) *Composer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.config.Validate(); err != nil {
		panic(err.Error())
	}
	mod, _ := ParseModifier(o.config.ZoomModifier)

	c := &Composer{
		name:      o.config.Name,
		cfg:       o.config,
		reducer:   o.config.Reducer(),
		zoomMod:   mod,
		showIndex: o.showIndex,
		showValue: o.showValue,
		grid:      o.grid,
		presenter: o.presenter,
		engine:    o.engine,
	}
	if o.onRender != nil {
		c.observers = append(c.observers, o.onRender)
	}
	return c
}

// Name returns the composer name.
func (c *Composer) Name() string {
	return c.name
}

// Config returns the tunables the composer was created with.
func (c *Composer) Config() Config {
	return c.cfg
}

// State reports whether a render is in flight.
func (c *Composer) State() State {
	return State(c.state.Load())
}

// Create instantiates the engine registered under engineType and makes it
// the composer's canvas. A previous engine is closed.
func (c *Composer) Create(engineType string, width, height int) error {
	e, err := NewEngine(engineType, width, height)
	if err != nil {
		return err
	}

	c.mu.Lock()
	old := c.engine
	c.engine = e
	c.mu.Unlock()

	Logger().Info("ggchart: engine created", "name", c.name, "engine", engineType, "width", width, "height", height)

	if old != nil {
		if err := old.Close(); err != nil {
			return fmt.Errorf("ggchart: close previous engine: %w", err)
		}
	}
	return nil
}

// Engine returns the current engine, or nil.
func (c *Composer) Engine() Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// Close releases the engine.
func (c *Composer) Close() error {
	c.mu.Lock()
	e := c.engine
	c.engine = nil
	c.mu.Unlock()

	if e == nil {
		return nil
	}
	return e.Close()
}

// Domain returns the current domain.
func (c *Composer) Domain() Domain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.domain
}

// Items returns a copy of the item sequence.
func (c *Composer) Items() Items {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// SetItems replaces the item sequence. The slice is copied; call Update to
// rescale and redraw.
func (c *Composer) SetItems(items Items) {
	cp := slices.Clone(items)
	c.mu.Lock()
	c.items = cp
	c.mu.Unlock()
}

// Mapper returns the coordinate mapper for the current domain and canvas.
// Without an engine the canvas is empty.
func (c *Composer) Mapper() Mapper {
	c.mu.Lock()
	d, e := c.domain, c.engine
	c.mu.Unlock()
	return c.mapper(d, e)
}

func (c *Composer) mapper(d Domain, e Engine) Mapper {
	var w, h int
	if e != nil {
		w, h = e.Size()
	}
	return NewMapper(d, float64(w), float64(h), c.cfg.Padding)
}

// Position maps a data point to canvas pixels.
func (c *Composer) Position(p DataPoint) Point {
	return c.Mapper().ToPixels(p)
}

// Value maps canvas pixels to a data point.
func (c *Composer) Value(p Point) DataPoint {
	return c.Mapper().ToValue(p)
}

// IndexTicks returns the index ticks of the current domain.
func (c *Composer) IndexTicks() []Tick {
	return slices.Collect(IndexTicks(c.Mapper(), c.cfg.IndexTicks, c.showIndex))
}

// ValueTicks returns the value ticks of the current domain.
func (c *Composer) ValueTicks() []Tick {
	return slices.Collect(ValueTicks(c.Mapper(), c.cfg.ValueTicks, c.showValue))
}

// Observe registers fn to be called with the new domain and the update
// source after every domain recomputation.
func (c *Composer) Observe(fn func(d Domain, source string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Update recomputes the domain and schedules a render. When override is
// non-nil it replaces the current domain before the automatic bounds are
// refreshed. source identifies the trigger and is passed to observers.
func (c *Composer) Update(ctx context.Context, override *Domain, source string) *Pending {
	return c.apply(ctx, source, func(d Domain) Domain {
		if override != nil {
			return *override
		}
		return d
	})
}

// apply derives the next domain from the current one under the lock, then
// notifies observers and schedules a render.
func (c *Composer) apply(ctx context.Context, source string, next func(Domain) Domain) *Pending {
	c.mu.Lock()
	d := Compose(next(c.domain), c.items, len(c.items))
	c.domain = d
	c.generation++
	gen := c.generation
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	Logger().Debug("ggchart: domain updated", "name", c.name, "domain", d.String(), "source", source)

	for _, fn := range observers {
		fn(d, source)
	}

	return c.schedule(ctx, gen)
}

// Render draws d synchronously: it clears the engine, draws the grid and
// every item inside the index window, then hands the engine to the
// presenter. Renders never interleave.
func (c *Composer) Render(ctx context.Context, d Domain) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	e, items := c.engine, c.items
	c.mu.Unlock()

	if e == nil {
		return ErrNoEngine
	}

	m := c.mapper(d, e)
	dc := &DrawContext{Engine: e, Mapper: m, ItemSize: c.cfg.ItemSize}

	e.Clear()
	c.grid.Draw(dc, IndexTicks(m, c.cfg.IndexTicks, c.showIndex), ValueTicks(m, c.cfg.ValueTicks, c.showValue))

	ib := d.IndexBound()
	for i := max(ib.Min, 0); i < ib.Max && i < len(items); i++ {
		if items[i] == nil {
			continue
		}
		var prev Shape
		if i > 0 {
			prev = items[i-1]
		}
		items[i].Draw(dc, i, prev)
	}

	if c.presenter != nil {
		if err := c.presenter.Present(ctx, e); err != nil {
			return fmt.Errorf("ggchart: present frame: %w", err)
		}
	}
	return nil
}

// schedule joins the in-flight render or starts a new one. A second handle
// is waited on in the background, so generation gen is drawn even when the
// caller drops the returned Pending.
func (c *Composer) schedule(ctx context.Context, gen uint64) *Pending {
	ctx = context.WithoutCancel(ctx)
	settle := c.pending(ctx, gen)
	go func() { _ = settle.Wait(ctx) }()
	return c.pending(ctx, gen)
}

func (c *Composer) pending(ctx context.Context, gen uint64) *Pending {
	return &Pending{c: c, ctx: ctx, gen: gen, ch: c.join(ctx)}
}

func (c *Composer) join(ctx context.Context) <-chan singleflight.Result {
	return c.flight.DoChan(renderKey, func() (any, error) {
		return nil, c.renderLatest(ctx)
	})
}

// renderLatest renders until the drawn domain is the latest one.
func (c *Composer) renderLatest(ctx context.Context) error {
	c.state.Store(int32(Rendering))
	defer c.state.Store(int32(Idle))

	for pass := 1; ; pass++ {
		c.mu.Lock()
		d, gen := c.domain, c.generation
		c.mu.Unlock()

		if err := c.Render(ctx, d); err != nil {
			if !errors.Is(err, ErrNoEngine) {
				Logger().Warn("ggchart: render failed", "name", c.name, "err", err)
			}
			return err
		}
		c.rendered.Store(gen)

		c.mu.Lock()
		latest := c.generation == gen
		c.mu.Unlock()

		if latest {
			Logger().Debug("ggchart: frame rendered", "name", c.name, "passes", pass)
			return nil
		}
	}
}

// Pending is the handle of a scheduled render.
type Pending struct {
	c   *Composer
	ctx context.Context
	gen uint64
	ch  <-chan singleflight.Result
}

// done returns a Pending that is already complete.
func done() *Pending {
	ch := make(chan singleflight.Result, 1)
	ch <- singleflight.Result{}
	return &Pending{ch: ch}
}

// Wait blocks until a frame at least as new as the update has been drawn,
// or ctx is done. A Pending must not be waited on concurrently.
func (p *Pending) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-p.ch:
			if r.Err != nil {
				return r.Err
			}
			if p.c == nil || p.c.rendered.Load() >= p.gen {
				return nil
			}
			// The update landed after the joined render checked for newer
			// domains; render again.
			p.ch = p.c.join(p.ctx)
		}
	}
}
