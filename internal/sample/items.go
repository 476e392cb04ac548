package sample

import (
	"image/color"
	"slices"

	"github.com/gogpu/ggchart"
)

// Pane names, top to bottom.
const (
	PaneAssets      = "assets"
	PaneIndicators  = "indicators"
	PaneLines       = "lines"
	PanePerformance = "performance"
)

// Panes lists the panes of the demo layout in display order.
var Panes = []string{PaneAssets, PaneIndicators, PaneLines, PanePerformance}

var (
	skyBlue   = color.RGBA{R: 0, G: 191, B: 255, A: 255}
	orangeRed = color.RGBA{R: 255, G: 69, B: 0, A: 255}
)

// Items converts candles to the items of one pane:
//
//   - assets: the candle with an arrow on its close
//   - indicators: volume bars, blue on up candles
//   - lines: high and low lines
//   - performance: the running sum of candle bodies as an area
//
// An unknown pane yields nil items.
func Items(candles []Candle, pane string) ggchart.Items {
	if !slices.Contains(Panes, pane) {
		return nil
	}
	items := make(ggchart.Items, len(candles))
	balance := 0.0
	for i, c := range candles {
		switch pane {
		case PaneAssets:
			items[i] = ggchart.NewGroupShape().
				Set("prices", ggchart.Candle{Open: c.Open, High: c.High, Low: c.Low, Close: c.Close}).
				Set("arrows", ggchart.Arrow{Value: c.Close, Up: c.Up()})
		case PaneIndicators:
			bar := ggchart.Bar{Value: c.Volume, Color: orangeRed}
			if c.Up() {
				bar.Color = skyBlue
			}
			items[i] = bar
		case PaneLines:
			items[i] = ggchart.NewGroupShape().
				Set("x", ggchart.Line{Value: c.High}).
				Set("y", ggchart.Line{Value: c.Low})
		case PanePerformance:
			balance += c.Close - c.Open
			items[i] = ggchart.Area{Value: balance, Color: skyBlue}
		}
	}
	return items
}
