package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/backend/term"
	"github.com/gogpu/ggchart/internal/sample"
)

const (
	defaultCols = 80
	defaultRows = 24
	minPaneRows = 3
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func tuiCmd(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the sample chart in the terminal",
		Long: "Tui draws the linked sample panes with the terminal engine and appends a\n" +
			"candle every interval. Scroll to pan, hold the zoom modifier while\n" +
			"scrolling to zoom, drag with the left button to pan and with the right\n" +
			"button to scale the value axis.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dash, err := newDashboard(ctx, a.cfg, a.newFeed(), term.Name, defaultCols, paneRows(defaultRows, len(sample.Panes)), nil, nil)
			if err != nil {
				return err
			}
			defer dash.close()

			p := tea.NewProgram(newTUIModel(ctx, dash, interval, a.cfg),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "time between new candles")
	return cmd
}

type tickMsg time.Time

type frameMsg struct{ err error }

// tuiModel is the bubbletea model of the tui command. Panes are stacked
// vertically, each rows tall.
type tuiModel struct {
	ctx      context.Context
	dash     *dashboard
	interval time.Duration
	zoom     ggchart.Modifiers

	width int
	rows  int
	err   error
}

func newTUIModel(ctx context.Context, dash *dashboard, interval time.Duration, cfg ggchart.Config) tuiModel {
	zoom, _ := ggchart.ParseModifier(cfg.ZoomModifier)
	return tuiModel{
		ctx:      ctx,
		dash:     dash,
		interval: interval,
		zoom:     zoom,
		width:    defaultCols,
		rows:     paneRows(defaultRows, len(dash.panes)),
	}
}

// paneRows splits height among n panes, keeping one row for the status
// line.
func paneRows(height, n int) int {
	if n == 0 {
		return minPaneRows
	}
	return max((height-1)/n, minPaneRows)
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.wait(m.dash.refresh(m.ctx, sourceFeed)...), m.tick())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
		m.rows = paneRows(msg.Height, len(m.dash.panes))
		for _, c := range m.dash.panes {
			if e := c.Engine(); e != nil {
				if err := e.Resize(m.width, m.rows); err != nil {
					m.err = err
				}
			}
		}
		return m, m.wait(m.dash.refresh(m.ctx, sourceFeed)...)

	case tickMsg:
		m.dash.feed.Next()
		return m, tea.Batch(m.wait(m.dash.refresh(m.ctx, sourceFeed)...), m.tick())

	case frameMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m, m.key(msg)

	case tea.MouseMsg:
		return m, m.mouse(msg)
	}
	return m, nil
}

func (m tuiModel) key(msg tea.KeyMsg) tea.Cmd {
	lead := m.dash.panes[0]
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "f":
		m.dash.setFollow(!m.dash.follow.Load())
		return m.wait(m.dash.refresh(m.ctx, sourceFeed)...)
	case "left", "h":
		return m.wheel(lead, ggchart.Event{Delta: ggchart.Pt(0, -1)})
	case "right", "l":
		return m.wheel(lead, ggchart.Event{Delta: ggchart.Pt(0, 1)})
	case "+", "=":
		return m.wheel(lead, ggchart.Event{Delta: ggchart.Pt(0, -1), Modifiers: m.zoom})
	case "-":
		return m.wheel(lead, ggchart.Event{Delta: ggchart.Pt(0, 1), Modifiers: m.zoom})
	case "a":
		pending := make([]*ggchart.Pending, 0, len(m.dash.panes))
		for _, c := range m.dash.panes {
			pending = append(pending, c.OnMouseDown(m.ctx, ggchart.Event{Modifiers: ggchart.ModCtrl}))
		}
		return m.wait(pending...)
	}
	return nil
}

// mouse routes a terminal mouse event to the pane under the pointer, with
// the position made relative to that pane.
func (m tuiModel) mouse(msg tea.MouseMsg) tea.Cmd {
	if m.rows <= 0 || msg.Y < 0 {
		return nil
	}
	i := msg.Y / m.rows
	if i >= len(m.dash.panes) {
		return nil
	}
	c := m.dash.panes[i]

	e := ggchart.Event{
		Position: ggchart.Pt(float64(msg.X), float64(msg.Y-i*m.rows)),
	}
	if msg.Shift {
		e.Modifiers |= ggchart.ModShift
	}
	if msg.Ctrl {
		e.Modifiers |= ggchart.ModCtrl
	}
	if msg.Alt {
		e.Modifiers |= ggchart.ModAlt
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		e.Delta = ggchart.Pt(0, -1)
		return m.wheel(c, e)

	case msg.Button == tea.MouseButtonWheelDown:
		e.Delta = ggchart.Pt(0, 1)
		return m.wheel(c, e)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// Anchor the drag, then let ctrl-click reset the value range.
		c.OnMouseMove(m.ctx, e)
		e.Buttons = ggchart.ButtonPrimary
		return m.wait(c.OnMouseDown(m.ctx, e))

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		c.OnScale(m.ctx, e, ggchart.AxisValue)
		return nil

	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft:
		e.Buttons = ggchart.ButtonPrimary
		return m.wait(m.dash.track(c, func() *ggchart.Pending { return c.OnMouseMove(m.ctx, e) }))

	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonRight:
		// The right button drags the value handle.
		e.Buttons = ggchart.ButtonPrimary
		return m.wait(c.OnScale(m.ctx, e, ggchart.AxisValue))

	case msg.Action == tea.MouseActionRelease:
		c.OnMouseLeave(m.ctx, e)
	}
	return nil
}

// wheel scrolls c, which pans or zooms its index window.
func (m tuiModel) wheel(c *ggchart.Composer, e ggchart.Event) tea.Cmd {
	return m.wait(m.dash.track(c, func() *ggchart.Pending { return c.OnWheel(m.ctx, e) }))
}

func (m tuiModel) View() string {
	views := make([]string, 0, len(m.dash.panes)+1)
	for _, c := range m.dash.panes {
		if e, ok := c.Engine().(*term.Engine); ok {
			views = append(views, e.View())
		}
	}
	views = append(views, m.status())
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

func (m tuiModel) status() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	d := m.dash.panes[0].Domain()
	follow := "off"
	if m.dash.follow.Load() {
		follow = "on"
	}
	return statusStyle.Render(fmt.Sprintf("window %v  follow %s  q quit  f follow  ←/→ pan  +/- zoom  a autoscale", d.IndexBound(), follow))
}

func (m tuiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// wait turns pending renders into a command that reports when they are
// done, prompting a redraw.
func (m tuiModel) wait(pending ...*ggchart.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return frameMsg{err: waitAll(ctx, pending)}
	}
}
