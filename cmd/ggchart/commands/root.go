package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/internal/sample"
)

// app holds the state shared by all subcommands.
type app struct {
	fs afero.Fs

	configPath string
	logLevel   string
	seed       uint64
	candles    int
	price      float64
	volatility float64

	cfg ggchart.Config
}

// Execute runs the ggchart command line.
func Execute() error {
	return NewRootCmd(afero.NewOsFs()).Execute()
}

// NewRootCmd builds the command tree reading files from fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, cfg: ggchart.DefaultConfig()}

	root := &cobra.Command{
		Use:          "ggchart",
		Short:        "Render and explore interactive financial charts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML chart config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); silent when empty")
	root.PersistentFlags().Uint64Var(&a.seed, "seed", 1, "random seed of the sample feed")
	root.PersistentFlags().IntVar(&a.candles, "candles", 150, "candles generated before the first frame")
	root.PersistentFlags().Float64Var(&a.price, "price", 3000, "starting price of the sample feed")
	root.PersistentFlags().Float64Var(&a.volatility, "volatility", 0.01, "relative price change per candle")

	root.AddCommand(renderCmd(a), tuiCmd(a), serveCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		ggchart.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	}

	if a.configPath != "" {
		cfg, err := ggchart.LoadConfig(a.fs, a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.candles < 0 {
		return fmt.Errorf("candles must not be negative, got %d", a.candles)
	}
	return nil
}

// newFeed returns the sample feed filled with the initial candles.
func (a *app) newFeed() *sample.Feed {
	start := time.Now().Truncate(time.Minute).Add(-time.Duration(a.candles) * time.Minute)
	f := sample.NewFeed(a.seed, start, a.price, a.volatility, time.Minute)
	f.Fill(a.candles)
	return f
}
