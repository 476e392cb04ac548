// Package ggchart provides the coordinate and domain engine for interactive
// 2D charts.
//
// # Overview
//
// ggchart keeps track of the visible data window of a chart (the domain),
// maps data points to device pixels and back, derives auto-scaled value
// ranges from the plotted items and turns zoom and pan gestures into new
// domains. Drawing is delegated to an [Engine]; the backend sub-packages
// provide engines on top of github.com/gogpu/gg (raster) and ntcharts
// (terminal).
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/ggchart"
//		_ "github.com/gogpu/ggchart/backend/raster"
//	)
//
//	c := ggchart.NewComposer(ggchart.WithName("prices"))
//	if err := c.Create("raster", 800, 600); err != nil {
//		log.Fatal(err)
//	}
//	c.SetItems(items)
//	if err := c.Update(ctx, nil, "").Wait(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Coordinate System
//
// Data space is (index, value): index counts items left to right, value grows
// upwards. Pixel space follows gg:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// The vertical axis is therefore inverted by [Mapper]. A padding fraction
// widens the value band so extreme points are not drawn flush against the
// canvas edge.
//
// # Domains
//
// Each axis of a [Domain] is either an explicit user range or Auto. Auto
// ranges are recomputed on every update: the index range covers all items,
// the value range is derived by [AutoScale] from the visible items.
//
// # Concurrency
//
// Reducers, mappers and tick generators are pure functions of their inputs.
// A [Composer] serializes its own state behind a mutex and never runs two
// renders at the same time; updates requested during a render join it.
package ggchart
