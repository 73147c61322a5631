package explorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/tui/components"
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

// View renders the current state
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.chart == nil {
		return m.renderLoading()
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top, plotStyle.Render(m.renderPlot()), m.renderSidebar())
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderLoading() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Loading %s\n\n", m.spinner.View(), m.path))
	b.WriteString(components.NewProgress(30).View(m.progressState.Percent))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(m.chart.Name)
	sub := m.chart.Description
	if sub == "" {
		sub = fmt.Sprintf("%d series", len(m.chart.Series))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitleStyle.Render(sub))
}

// renderPlot draws every series point and the crosshair into a grid of
// cells sized to the plot area.
func (m Model) renderPlot() string {
	w, h := m.plotSize()
	if w == 0 || h == 0 {
		return ""
	}

	grid := make([][]cell, h)
	for i := range grid {
		grid[i] = make([]cell, w)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	m.drawCrosshair(grid)
	m.drawSeries(grid)

	var b strings.Builder
	for i, row := range grid {
		for _, c := range row {
			if c.style != nil {
				b.WriteString(c.style.Render(string(c.r)))
			} else {
				b.WriteRune(c.r)
			}
		}
		if i < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) drawSeries(grid [][]cell) {
	bounds := m.snap.Bounds
	if bounds.IsDegenerate() {
		return
	}
	xScale, yScale := geometry.Fit(m.chart.XScale, m.chart.YScale, bounds)
	for i, s := range m.chart.Series {
		style := components.SeriesStyle(s, i)
		if s.ID == m.snap.Highlighted {
			style = style.Bold(true)
		}
		glyph := components.Glyph(i)
		for _, p := range s.Points {
			col, row, ok := cellAt(grid, xScale.ToPixel(p.X), yScale.ToPixel(p.Y))
			if !ok {
				continue
			}
			st := style
			grid[row][col] = cell{r: glyph, style: &st}
		}
	}
}

func (m Model) drawCrosshair(grid [][]cell) {
	ch := m.snap.Crosshair
	if !ch.Visible {
		return
	}
	col, row, ok := cellAt(grid, ch.PixelX, ch.PixelY)
	if !ok {
		return
	}
	for r := range grid {
		grid[r][col] = cell{r: '│', style: &crosshairStyle}
	}
	for c := range grid[row] {
		grid[row][c] = cell{r: '─', style: &crosshairStyle}
	}
	grid[row][col] = cell{r: '┼', style: &crosshairStyle}
}

func cellAt(grid [][]cell, px, py float64) (int, int, bool) {
	if math.IsNaN(px) || math.IsNaN(py) || len(grid) == 0 {
		return 0, 0, false
	}
	col, row := int(math.Round(px)), int(math.Round(py))
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return 0, 0, false
	}
	return col, row, true
}

func (m Model) renderSidebar() string {
	sections := []string{
		sectionStyle.Render("Series"),
		components.NewLegend(m.chart.Series, m.snap.Highlighted).View(),
	}

	if st := m.spotlight.State(); st.Open {
		sections = append(sections, sectionStyle.Render("Spotlight"), m.renderSpotlight())
	} else {
		sections = append(sections,
			sectionStyle.Render("Tooltip"),
			components.NewTooltipPanel(m.snap.Tooltip, m.chart.Series).View(),
		)
	}

	sections = append(sections, sectionStyle.Render("Pointer"), m.renderPointer())
	return sidebarStyle.Width(sidebarWidth).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderSpotlight() string {
	st := m.spotlight.State()
	lines := []string{"> " + st.Query}
	if len(st.Results) == 0 {
		lines = append(lines, statusStyle.Render("no matching actions"))
	}
	for i, a := range st.Results {
		if i == st.Selected {
			lines = append(lines, selectedStyle.Render("› "+a.Label))
		} else {
			lines = append(lines, "  "+a.Label)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPointer() string {
	s := m.snap
	lines := []string{fmt.Sprintf("state: %s", s.State)}
	if s.Pointer.HasData {
		lines = append(lines, fmt.Sprintf("data: %.4g, %.4g", s.Pointer.Data.X, s.Pointer.Data.Y))
	}
	if s.Crosshair.Visible {
		mode := "free"
		switch {
		case s.Crosshair.Sticky:
			mode = "sticky"
		case s.Crosshair.Snapped:
			mode = "snapped"
		}
		lines = append(lines, fmt.Sprintf("crosshair: %.0f, %.0f (%s)", s.Crosshair.PixelX, s.Crosshair.PixelY, mode))
	}
	if s.Popover.Visible {
		where := "local"
		if s.Popover.Portal {
			where = "page"
		}
		lines = append(lines, fmt.Sprintf("popover: %.0f, %.0f (%s)", s.Popover.X, s.Popover.Y, where))
	}

	cfg := m.ctx.Config()
	lines = append(lines, statusStyle.Render(fmt.Sprintf("multi:%s live:%s sticky:%s", onOff(cfg.MultiTooltip), onOff(cfg.LiveTooltip), onOff(cfg.StickyCrosshair))))
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.NewProgress(30).View(m.progressState.Percent),
		m.help.View(m.keys),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
