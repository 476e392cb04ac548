package ggchart

import "context"

// OnWheel pans the index window by one item per wheel event, or zooms it
// while the zoom modifier is held. Scrolling down (positive delta) pans
// forward and zooms out.
func (c *Composer) OnWheel(ctx context.Context, e Event) *Pending {
	if e.Delta.Y == 0 {
		return done()
	}

	zoom := e.Modifiers.Has(c.zoomMod)
	direction := 1
	if e.Delta.Y < 0 {
		direction = -1
	}

	return c.apply(ctx, c.name, func(d Domain) Domain {
		if zoom {
			return d.WithIndex(c.reducer.ZoomIndex(d, -direction))
		}
		return d.WithIndex(c.reducer.PanIndex(d, direction))
	})
}

// OnMouseMove drags the index window while the primary button is held. The
// horizontal displacement since the previous event picks the direction; one
// event moves the window by one item.
func (c *Composer) OnMouseMove(ctx context.Context, e Event) *Pending {
	c.mu.Lock()
	prev, g := c.gesture.moved(e.Position)
	c.gesture = g
	c.mu.Unlock()

	if !e.Buttons.Has(ButtonPrimary) {
		return done()
	}

	delta := int(signf(prev.X - e.Position.X))
	if delta == 0 {
		return done()
	}

	return c.apply(ctx, c.name, func(d Domain) Domain {
		return d.WithIndex(c.reducer.PanIndex(d, delta))
	})
}

// OnScale zooms one axis from a resize-handle drag. On AxisIndex dragging
// right zooms in; on AxisValue dragging up zooms in. Value zoom updates
// carry no source so linked charts keep their own value ranges.
func (c *Composer) OnScale(ctx context.Context, e Event, axis Axis) *Pending {
	c.mu.Lock()
	prev, g := c.gesture.scaled(e.Position)
	c.gesture = g
	c.mu.Unlock()

	if !e.Buttons.Has(ButtonPrimary) {
		return done()
	}

	switch axis {
	case AxisIndex:
		dx := prev.X - e.Position.X
		if dx == 0 {
			return done()
		}
		delta := -int(signf(dx))
		return c.apply(ctx, c.name, func(d Domain) Domain {
			return d.WithIndex(c.reducer.ZoomIndex(d, delta))
		})
	case AxisValue:
		dy := prev.Y - e.Position.Y
		if dy == 0 {
			return done()
		}
		delta := -int(signf(dy))
		return c.apply(ctx, "", func(d Domain) Domain {
			return d.WithValue(c.reducer.ZoomValue(d, delta))
		})
	}
	return done()
}

// OnMouseDown with Ctrl held drops the value override so the value range
// follows auto-scale again.
func (c *Composer) OnMouseDown(ctx context.Context, e Event) *Pending {
	if !e.Modifiers.Has(ModCtrl) {
		return done()
	}
	return c.apply(ctx, "", Domain.WithAutoValue)
}

// OnMouseLeave forgets the drag anchor.
func (c *Composer) OnMouseLeave(_ context.Context, _ Event) {
	c.mu.Lock()
	c.gesture = c.gesture.left()
	c.mu.Unlock()
}

func signf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
