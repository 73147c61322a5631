package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/tooltip"
)

func TestProgressView(t *testing.T) {
	t.Parallel()

	t.Run("renders the percentage label", func(t *testing.T) {
		t.Parallel()
		view := NewProgress(20).View(40)
		require.Contains(t, view, "40%")
		require.True(t, len(strings.TrimSpace(view)) > len("40%"))
	})

	t.Run("clamps out of range values", func(t *testing.T) {
		t.Parallel()
		require.Contains(t, NewProgress(20).View(150), "100%")
		require.Contains(t, NewProgress(20).View(-3), "0%")
	})

	t.Run("defaults the width", func(t *testing.T) {
		t.Parallel()
		p := NewProgress(0)
		require.Equal(t, 30, p.bar.Width)
	})
}

func legendSeries() []series.Series {
	return []series.Series{
		{ID: "p50", Label: "Median", Color: "#4c6ef5"},
		{ID: "p99"},
	}
}

func TestLegend(t *testing.T) {
	t.Parallel()

	t.Run("keeps registration order", func(t *testing.T) {
		t.Parallel()
		entries := NewLegend(legendSeries(), "").Entries()
		require.Len(t, entries, 2)
		require.Equal(t, "Median", entries[0].Label)
		require.Equal(t, "p99", entries[1].Label, "label falls back to the id")
		require.Equal(t, Glyph(1), entries[1].Glyph)
	})

	t.Run("marks the highlighted series", func(t *testing.T) {
		t.Parallel()
		legend := NewLegend(legendSeries(), "p99")
		entries := legend.Entries()
		require.False(t, entries[0].Highlighted)
		require.True(t, entries[1].Highlighted)

		lines := strings.Split(legend.View(), "\n")
		require.Len(t, lines, 2)
		require.True(t, strings.HasPrefix(lines[1], "›"))
	})

	t.Run("empty legend", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, NewLegend(nil, "").View())
	})
}

func TestSeriesColor(t *testing.T) {
	t.Parallel()
	list := legendSeries()
	require.Equal(t, "#4c6ef5", string(SeriesColor(list[0], 0)))
	require.Equal(t, seriesPalette[1], SeriesColor(list[1], 1))
	require.Equal(t, seriesPalette[0], SeriesColor(list[1], len(seriesPalette)))
}

func TestGlyphWraps(t *testing.T) {
	t.Parallel()
	require.Equal(t, Glyph(0), Glyph(len(glyphs)))
	require.NotPanics(t, func() { Glyph(-1) })
}

func TestTooltipPanel(t *testing.T) {
	t.Parallel()

	t.Run("placeholder when empty", func(t *testing.T) {
		t.Parallel()
		view := NewTooltipPanel(tooltip.Tooltip{Entries: []tooltip.Entry{}}, nil).View()
		require.Contains(t, view, "no data")
	})

	t.Run("renders entries", func(t *testing.T) {
		t.Parallel()
		tip := tooltip.Tooltip{Entries: []tooltip.Entry{
			{SeriesID: "p50", Label: "Median", Point: series.Point{X: 5, Y: 20}, Value: "20 ms"},
			{SeriesID: "p99", Label: "p99", Point: series.Point{X: 5, Y: 80}, Value: "80 ms"},
		}}
		view := NewTooltipPanel(tip, legendSeries()).View()
		require.Contains(t, view, "x = 5")
		require.Contains(t, view, "Median  20 ms")
		require.Contains(t, view, "p99  80 ms")
	})

	t.Run("category heading", func(t *testing.T) {
		t.Parallel()
		tip := tooltip.Tooltip{Entries: []tooltip.Entry{
			{SeriesID: "visits", Label: "visits", Point: series.Point{X: 1, Y: 7, Category: "tue"}, Value: "7"},
		}}
		require.Contains(t, NewTooltipPanel(tip, nil).View(), "tue")
	})
}
