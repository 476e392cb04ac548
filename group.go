package ggchart

import (
	"context"
	"errors"
	"sync"
)

// Group links several composers so they share one index window, like the
// stacked panes of a trading chart. A gesture on one pane (an update whose
// source is that pane's name) copies its index window to every other pane.
// The copies carry the originating name as their source, which never
// equals the receiving pane's name, so they are not broadcast again.
//
// Value ranges stay independent.
type Group struct {
	ctx context.Context

	mu      sync.Mutex
	members []*Composer
}

// NewGroup links the given composers. Member names must be unique and
// non-empty for broadcasts to be attributed correctly.
func NewGroup(ctx context.Context, members ...*Composer) *Group {
	g := &Group{ctx: ctx}
	for _, c := range members {
		g.Add(c)
	}
	return g
}

// Add links c to the group.
func (g *Group) Add(c *Composer) {
	g.mu.Lock()
	g.members = append(g.members, c)
	g.mu.Unlock()

	c.Observe(func(d Domain, source string) {
		if source == "" || source != c.Name() {
			return
		}
		g.broadcast(c, d, source)
	})
}

// Members returns the linked composers.
func (g *Group) Members() []*Composer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Composer(nil), g.members...)
}

// Update updates every member with the given source, e.g. after new items
// were appended to all panes.
func (g *Group) Update(ctx context.Context, source string) []*Pending {
	members := g.Members()
	pending := make([]*Pending, 0, len(members))
	for _, c := range members {
		pending = append(pending, c.Update(ctx, nil, source))
	}
	return pending
}

// Close closes every member's engine.
func (g *Group) Close() error {
	var errs []error
	for _, c := range g.Members() {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) broadcast(from *Composer, d Domain, source string) {
	for _, c := range g.Members() {
		if c == from {
			continue
		}
		Logger().Debug("ggchart: linked update", "from", source, "to", c.Name(), "index", d.Index)
		c.apply(g.ctx, source, func(cur Domain) Domain {
			cur.Index = d.Index
			return cur
		})
	}
}
