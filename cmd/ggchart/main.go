// Command ggchart renders and explores the sample chart.
//
// Usage:
//
//	ggchart render -o chart.png --pane assets
//	ggchart tui
//	ggchart serve --addr :8080
package main

import (
	"os"

	"github.com/gogpu/ggchart/cmd/ggchart/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
