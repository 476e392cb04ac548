// Package commands defines the ggchart CLI.
//
// Commands
//
//   - render  Draw one pane of the sample chart to a PNG or JPEG file
//   - tui     Explore the linked sample panes in the terminal
//   - serve   Stream the panes to a browser over server-sent events
//
// # Implementation
//
// The root command sets up logging and loads the chart config before any
// subcommand runs. tui and serve share a dashboard: one composer per sample
// pane, linked in a group so gestures on one pane move every pane's index
// window, fed by a random candle generator.
package commands
