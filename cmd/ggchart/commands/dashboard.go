package commands

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/internal/sample"
	"github.com/gogpu/ggchart/internal/telemetry"
)

// sourceFeed tags updates caused by new candles.
const sourceFeed = "feed"

// dashboard is the stack of linked sample panes shared by the tui and serve
// commands.
type dashboard struct {
	feed    *sample.Feed
	group   *ggchart.Group
	panes   []*ggchart.Composer
	metrics *telemetry.Metrics

	// follow keeps the window on the newest candles until a gesture moves it.
	follow atomic.Bool
}

// paneSetup customizes one pane before it is created.
type paneSetup func(name string) []ggchart.Option

// newDashboard creates one composer per sample pane on the given engine
// type, each width x height, and links them.
func newDashboard(ctx context.Context, cfg ggchart.Config, feed *sample.Feed, engine string, width, height int, m *telemetry.Metrics, setup paneSetup) (*dashboard, error) {
	d := &dashboard{
		feed:    feed,
		group:   ggchart.NewGroup(ctx),
		metrics: m,
	}
	d.follow.Store(true)

	index, err := ggchart.CachedFormatter(feed.Formatter("01/02 15:04"), 256)
	if err != nil {
		return nil, err
	}

	for _, name := range sample.Panes {
		pc := cfg
		pc.Name = name
		opts := []ggchart.Option{ggchart.WithConfig(pc), ggchart.WithFormatters(index, nil)}
		if setup != nil {
			opts = append(opts, setup(name)...)
		}

		c := ggchart.NewComposer(opts...)
		if err := c.Create(engine, width, height); err != nil {
			return nil, errors.Join(fmt.Errorf("create pane %s: %w", name, err), d.close())
		}
		if m != nil {
			m.Observe(c)
		}
		d.group.Add(c)
		d.panes = append(d.panes, c)
	}
	return d, nil
}

// pane returns the composer named name.
func (d *dashboard) pane(name string) (*ggchart.Composer, bool) {
	for _, c := range d.panes {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// refresh loads the current candles into every pane and redraws them. While
// following, the window snaps to the newest candles.
func (d *dashboard) refresh(ctx context.Context, source string) []*ggchart.Pending {
	candles := d.feed.Candles()

	var override *ggchart.Domain
	if d.follow.Load() {
		w := ggchart.Domain{}.WithIndex(sample.Window(len(candles), sample.Visible))
		override = &w
	}

	pending := make([]*ggchart.Pending, 0, len(d.panes))
	for _, c := range d.panes {
		c.SetItems(sample.Items(candles, c.Name()))
		next := override
		if next != nil {
			// Keep the pane's own value range.
			w := c.Domain()
			w.Index = next.Index
			next = &w
		}
		pending = append(pending, c.Update(ctx, next, source))
	}
	return pending
}

// track runs gesture on c and stops following when it moved c's index
// window. Hovering and value scaling keep following.
func (d *dashboard) track(c *ggchart.Composer, gesture func() *ggchart.Pending) *ggchart.Pending {
	window := c.Domain().IndexBound()
	p := gesture()
	if c.Domain().IndexBound() != window {
		d.setFollow(false)
	}
	return p
}

// setFollow switches following on or off.
func (d *dashboard) setFollow(on bool) {
	d.follow.Store(on)
}

func (d *dashboard) close() error {
	return d.group.Close()
}

// waitAll waits for every pending render and joins their errors.
func waitAll(ctx context.Context, pending []*ggchart.Pending) error {
	var errs []error
	for _, p := range pending {
		if err := p.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
