package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
)

var glyphs = []rune{'●', '◆', '▲', '■', '✚', '✖', '◉', '★'}

// seriesPalette holds the 500 shades of the blue, green, red, yellow,
// purple and cyan families.
var seriesPalette = []lipgloss.Color{
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#22c55e"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#eab308"),
	lipgloss.Color("#a855f7"),
	lipgloss.Color("#06b6d4"),
}

// Glyph returns the marker used for the series at the given registration index.
func Glyph(index int) rune {
	if index < 0 {
		index = -index
	}
	return glyphs[index%len(glyphs)]
}

// SeriesColor returns the series color, or a palette color picked by the
// registration index when the series has none.
func SeriesColor(s series.Series, index int) lipgloss.Color {
	if s.Color != "" {
		return lipgloss.Color(s.Color)
	}
	if index < 0 {
		index = -index
	}
	return seriesPalette[index%len(seriesPalette)]
}

// SeriesStyle colors a series marker.
func SeriesStyle(s series.Series, index int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeriesColor(s, index))
}

// LegendEntry is one row of the legend.
type LegendEntry struct {
	ID          string
	Label       string
	Glyph       rune
	Style       lipgloss.Style
	Highlighted bool
}

// Legend renders the series list of a chart.
type Legend struct {
	entries []LegendEntry
}

// NewLegend builds a legend for the series in registration order.
func NewLegend(list []series.Series, highlighted string) Legend {
	entries := make([]LegendEntry, 0, len(list))
	for i, s := range list {
		entries = append(entries, LegendEntry{
			ID:          s.ID,
			Label:       s.DisplayLabel(),
			Glyph:       Glyph(i),
			Style:       SeriesStyle(s, i),
			Highlighted: s.ID == highlighted,
		})
	}
	return Legend{entries: entries}
}

// Entries returns the ordered legend entries.
func (l Legend) Entries() []LegendEntry {
	clone := make([]LegendEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}

// View renders one line per series. The highlighted series is marked.
func (l Legend) View() string {
	lines := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		marker := " "
		label := e.Label
		if e.Highlighted {
			marker = "›"
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}
		lines = append(lines, marker+" "+e.Style.Render(string(e.Glyph))+" "+label)
	}
	return strings.Join(lines, "\n")
}
