package explorer

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
)

var toggleActions = []struct{ id, label string }{
	{"multi", "multi tooltip"},
	{"live", "live tooltip"},
	{"sticky", "sticky crosshair"},
	{"crosshair", "crosshair"},
	{"portal", "popover portal"},
	{"follow", "popover follow mode"},
	{"lookup", "xy lookup"},
}

// toggleConfig flips one interaction setting on ctx.
func toggleConfig(ctx *interaction.Context, log *logger.Logger, setting string) {
	cfg := ctx.Config()
	switch setting {
	case "multi":
		cfg.MultiTooltip = !cfg.MultiTooltip
	case "live":
		cfg.LiveTooltip = !cfg.LiveTooltip
	case "sticky":
		cfg.StickyCrosshair = !cfg.StickyCrosshair
	case "crosshair":
		cfg.EnableCrosshair = !cfg.EnableCrosshair
	case "portal":
		cfg.PopoverPortal = !cfg.PopoverPortal
	case "follow":
		if cfg.PopoverFollowMode == config.FollowPointer {
			cfg.PopoverFollowMode = config.FollowCrosshair
		} else {
			cfg.PopoverFollowMode = config.FollowPointer
		}
	case "lookup":
		if cfg.Lookup == config.LookupXY {
			cfg.Lookup = config.LookupX
		} else {
			cfg.Lookup = config.LookupXY
		}
	default:
		return
	}
	if err := ctx.SetConfig(cfg); err != nil {
		log.Warn("interaction setting rejected", "setting", setting, "error", err.Error())
		return
	}
	log.Debug("interaction setting toggled", "setting", setting)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.layout(), nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case spinner.TickMsg:
		if m.chart != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chartLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.log.Error(msg.err, "chart load failed", "path", m.path)
			return m, nil
		}
		m = m.attach(msg.chart)
		return m, waitForSnapshot(m.snapshots)

	case snapshotMsg:
		// snapshots returned by direct calls may already be newer
		if msg.snapshot.Version > m.snap.Version {
			m.snap = msg.snapshot
		}
		return m, waitForSnapshot(m.snapshots)

	case progressMsg:
		m.progressState = msg.state
		return m, waitForProgress(m.progressCh)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.spotlight.State().Open {
		return m.handleSpotlightKey(msg), nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.ctx == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(0, -1), nil
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(0, 1), nil
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(-1, 0), nil
	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(1, 0), nil
	case key.Matches(msg, m.keys.Press):
		x, y := m.cursorPage()
		if m.snap.State == interaction.Dragging {
			m.snap = m.ctx.PointerUp(x, y)
		} else {
			if m.snap.State == interaction.Idle {
				m.ctx.PointerEnter(x, y)
			}
			m.snap = m.ctx.PointerDown(x, y)
		}
	case key.Matches(msg, m.keys.Leave):
		m.snap = m.ctx.PointerLeave()
	case key.Matches(msg, m.keys.Multi):
		toggleConfig(m.ctx, m.log, "multi")
		m.snap = m.ctx.Snapshot()
	case key.Matches(msg, m.keys.Live):
		toggleConfig(m.ctx, m.log, "live")
		m.snap = m.ctx.Snapshot()
	case key.Matches(msg, m.keys.Sticky):
		toggleConfig(m.ctx, m.log, "sticky")
		m.snap = m.ctx.Snapshot()
	case key.Matches(msg, m.keys.Crosshair):
		toggleConfig(m.ctx, m.log, "crosshair")
		m.snap = m.ctx.Snapshot()
	case key.Matches(msg, m.keys.Spotlight):
		m.spotlight.Open()
	}
	return m, nil
}

func (m Model) handleSpotlightKey(msg tea.KeyMsg) Model {
	st := m.spotlight.State()
	switch msg.Type {
	case tea.KeyEsc:
		m.spotlight.Close()
	case tea.KeyEnter:
		if _, ok := m.spotlight.Trigger(); ok && m.ctx != nil {
			m.snap = m.ctx.Snapshot()
		}
	case tea.KeyUp:
		m.spotlight.Prev()
	case tea.KeyDown, tea.KeyTab:
		m.spotlight.Next()
	case tea.KeyBackspace:
		if r := []rune(st.Query); len(r) > 0 {
			m.spotlight.SetQuery(string(r[:len(r)-1]))
		}
	case tea.KeyCtrlC:
		m.spotlight.Close()
	case tea.KeySpace:
		m.spotlight.SetQuery(st.Query + " ")
	case tea.KeyRunes:
		m.spotlight.SetQuery(st.Query + string(msg.Runes))
	}
	return m
}

// moveCursor steps the keyboard pointer by one cell. The first step from
// outside the chart starts at the plot center.
func (m Model) moveCursor(dx, dy int) Model {
	w, h := m.plotSize()
	if w == 0 || h == 0 {
		return m
	}
	if m.snap.State == interaction.Idle {
		m.cursorX, m.cursorY = w/2, h/2
	} else {
		m.cursorX = clampInt(m.cursorX+dx, 0, w-1)
		m.cursorY = clampInt(m.cursorY+dy, 0, h-1)
	}
	x, y := m.cursorPage()
	m.snap = m.ctx.PointerMove(x, y)
	return m
}

func (m Model) cursorPage() (float64, float64) {
	return m.snap.Offset.ToPage(float64(m.cursorX), float64(m.cursorY))
}

// handleMouse converts terminal mouse events into pointer events. Motion
// outside the plot area leaves the chart.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.ctx == nil {
		return m
	}

	w, h := m.plotSize()
	localX, localY := msg.X, msg.Y-headerHeight
	inside := localX >= 0 && localX < w && localY >= 0 && localY < h
	x, y := float64(msg.X), float64(msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		switch {
		case inside:
			m.cursorX, m.cursorY = localX, localY
			if m.snap.State == interaction.Idle {
				m.snap = m.ctx.PointerEnter(x, y)
			} else {
				m.snap = m.ctx.PointerMove(x, y)
			}
		case m.snap.State != interaction.Idle && m.snap.State != interaction.Dragging:
			m.snap = m.ctx.PointerLeave()
		case m.snap.State == interaction.Dragging:
			m.snap = m.ctx.PointerMove(x, y)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m
		}
		m.cursorX, m.cursorY = localX, localY
		if m.snap.State == interaction.Idle {
			m.ctx.PointerEnter(x, y)
		}
		m.snap = m.ctx.PointerDown(x, y)
	case tea.MouseActionRelease:
		if m.snap.State != interaction.Dragging {
			return m
		}
		m.snap = m.ctx.PointerUp(x, y)
		if !inside {
			m.snap = m.ctx.PointerLeave()
		}
	}
	return m
}
