// Package explorer is the interactive terminal chart explorer. Mouse and
// keyboard input is translated into pointer events on an interaction context
// and the resulting snapshots are drawn as a cell grid.
package explorer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/clock"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/progress"
	"github.com/alexisbeaulieu97/crosshair/internal/spotlight"
)

const (
	sidebarWidth = 34
	headerHeight = 2
	footerHeight = 2
)

// Options configures the explorer.
type Options struct {
	// Path is loaded asynchronously when Chart is nil.
	Path   string
	Chart  *chart.Chart
	Logger *logger.Logger
	Clock  clock.Clock
}

// Model is the explorer's bubbletea model.
type Model struct {
	path  string
	log   *logger.Logger
	clock clock.Clock

	chart     *chart.Chart
	ctx       *interaction.Context
	progress  *progress.Controller
	spotlight *spotlight.Store

	snap          interaction.Snapshot
	progressState progress.State
	snapshots     chan interaction.Snapshot
	progressCh    chan progress.State
	unsubscribe   []func()

	// keyboard pointer in plot-local cells
	cursorX, cursorY int

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	err     error

	width  int
	height int
}

// NewModel creates the explorer. A supplied chart is attached immediately;
// otherwise Init loads Options.Path.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	m := Model{
		path:       opts.Path,
		log:        opts.Logger,
		clock:      clk,
		progress:   progress.New(progress.Options{Clock: clk, Logger: opts.Logger}),
		spotlight:  spotlight.New(opts.Logger),
		progressCh: make(chan progress.State, 1),
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    s,
		width:      80,
		height:     24,
	}
	ch := m.progressCh
	m.unsubscribe = append(m.unsubscribe, m.progress.Subscribe(func(st progress.State) {
		offer(ch, st)
	}))

	if opts.Chart != nil {
		m = m.attach(opts.Chart)
	}
	return m
}

// Init starts the spinner, the progress watcher and, when needed, the loader.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForProgress(m.progressCh),
	}
	if m.chart == nil && m.err == nil {
		cmds = append(cmds, loadChartCmd(m.path, m.progress, m.log))
	} else {
		cmds = append(cmds, waitForSnapshot(m.snapshots))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the last snapshot the explorer rendered.
func (m Model) Snapshot() interaction.Snapshot {
	return m.snap
}

// Err returns the loading error, if any.
func (m Model) Err() error {
	return m.err
}

// Close releases the model's subscriptions.
func (m Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
}

// attach wires a loaded chart into a fresh interaction context.
func (m Model) attach(c *chart.Chart) Model {
	ctx, err := c.NewContext(interaction.Options{Logger: m.log, Clock: m.clock})
	if err != nil {
		m.err = fmt.Errorf("create interaction context: %w", err)
		return m
	}

	m.chart = c
	m.ctx = ctx
	m.snapshots = make(chan interaction.Snapshot, 1)
	ch := m.snapshots
	m.unsubscribe = append(m.unsubscribe, ctx.Subscribe(func(s interaction.Snapshot) {
		offer(ch, s)
	}))
	m.spotlight.SetActions(spotlightActions(c, ctx, m.log))
	m = m.layout()
	m.log.Info("chart attached", "chart", c.Name, "series", len(c.Series), "chart_id", ctx.ID())
	return m
}

// plotSize returns the plot area in cells.
func (m Model) plotSize() (int, int) {
	w := m.width - sidebarWidth - 1
	h := m.height - headerHeight - footerHeight
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// layout pushes the plot geometry into the context. Cells map one-to-one to
// pixels, so a w-cell plot spans pixels 0 through w-1.
func (m Model) layout() Model {
	if m.ctx == nil {
		return m
	}
	w, h := m.plotSize()
	bounds := geometry.PlotBounds{}
	if w > 1 && h > 1 {
		bounds = geometry.PlotBounds{Width: float64(w - 1), Height: float64(h - 1)}
	}
	m.ctx.SetLayout(bounds, geometry.RootOffset{X: 0, Y: headerHeight})
	m.cursorX = clampInt(m.cursorX, 0, w-1)
	m.cursorY = clampInt(m.cursorY, 0, h-1)
	m.snap = m.ctx.Snapshot()
	return m
}

func spotlightActions(c *chart.Chart, ctx *interaction.Context, log *logger.Logger) []spotlight.Action {
	actions := make([]spotlight.Action, 0, len(c.Series)+5)
	for _, s := range c.Series {
		id := s.ID
		actions = append(actions, spotlight.Action{
			ID:          "highlight:" + id,
			Label:       "Highlight " + s.DisplayLabel(),
			Description: "Emphasise the series in the legend",
			Keywords:    []string{id, "series"},
			Handler: func() {
				if err := ctx.Highlight(id); err != nil {
					log.Warn("highlight failed", "series_id", id, "error", err.Error())
				}
			},
		})
	}
	actions = append(actions, spotlight.Action{
		ID:       "highlight:clear",
		Label:    "Clear highlight",
		Keywords: []string{"series", "reset"},
		Handler: func() {
			_ = ctx.Highlight("")
		},
	})

	for _, t := range toggleActions {
		actions = append(actions, spotlight.Action{
			ID:       "toggle:" + t.id,
			Label:    "Toggle " + t.label,
			Keywords: []string{"toggle", t.id},
			Handler: func() {
				toggleConfig(ctx, log, t.id)
			},
		})
	}
	return actions
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
