package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/tooltip"
)

// TooltipPanel renders an aggregated tooltip as a side panel.
type TooltipPanel struct {
	tip    tooltip.Tooltip
	series []series.Series
}

// NewTooltipPanel creates a panel for tip. series supplies glyphs and colors.
func NewTooltipPanel(tip tooltip.Tooltip, list []series.Series) TooltipPanel {
	return TooltipPanel{tip: tip, series: list}
}

// View renders one line per entry, or a placeholder when the tooltip is empty.
func (p TooltipPanel) View() string {
	if p.tip.Empty() {
		return lipgloss.NewStyle().Faint(true).Render("no data")
	}

	var lines []string
	if first := p.tip.Entries[0]; first.Point.Category != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(first.Point.Category))
	} else {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("x = %s", tooltip.PlainValue(first.Point.X))))
	}

	for _, e := range p.tip.Entries {
		idx := series.IndexOf(p.series, e.SeriesID)
		style := lipgloss.NewStyle()
		if idx >= 0 {
			style = SeriesStyle(p.series[idx], idx)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", style.Render(string(Glyph(idx))), e.Label, e.Value))
	}
	return strings.Join(lines, "\n")
}
