package tooltip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/nearest"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
)

func threeSeries() []series.Series {
	return []series.Series{
		{ID: "a", Label: "Alpha", Color: "#ff0000", Points: []series.Point{{X: 1, Y: 10}}},
		{ID: "b", Label: "Beta", Color: "#00ff00", Points: []series.Point{{X: 1, Y: 20}}},
		{ID: "c", Label: "Gamma", Color: "#0000ff", Points: []series.Point{{X: 1, Y: 30}}},
	}
}

func result(order int, id string, y, distance float64) nearest.Result {
	return nearest.Result{
		SeriesID: id,
		Order:    order,
		Found:    true,
		Match: nearest.Match{
			Point:         series.Point{X: 1, Y: y},
			PixelX:        100 + distance,
			PixelY:        50,
			PixelDistance: distance,
		},
	}
}

func TestAggregateSingleTooltip(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	results := []nearest.Result{
		result(0, "a", 10, 9),
		result(1, "b", 20, 3),
		result(2, "c", 30, 3),
	}

	tip := Aggregate(list, results, Options{MultiTooltip: false, PointerPixelThreshold: 20, MaxSeries: 5})
	require.Len(t, tip.Entries, 1)
	assert.Equal(t, "b", tip.Entries[0].SeriesID, "ties keep the earliest registered series")
	assert.Equal(t, "Beta", tip.Entries[0].Label)
	assert.Equal(t, "20", tip.Entries[0].Value)
	assert.True(t, tip.HasAnchor)
	assert.Equal(t, 103.0, tip.AnchorPixelX)
}

func TestAggregateMultiTooltipKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	results := []nearest.Result{
		result(0, "a", 10, 12),
		result(1, "b", 20, 1),
		result(2, "c", 30, 0.5),
	}

	tip := Aggregate(list, results, Options{MultiTooltip: true, PointerPixelThreshold: 100, MaxSeries: 2})
	require.Len(t, tip.Entries, 2)
	assert.Equal(t, "a", tip.Entries[0].SeriesID)
	assert.Equal(t, "b", tip.Entries[1].SeriesID)
	// the anchor follows the closest match even when it was truncated away
	assert.Equal(t, 100.5, tip.AnchorPixelX)
}

func TestAggregateThreshold(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	results := []nearest.Result{
		result(0, "a", 10, 30),
		result(1, "b", 20, 10),
		{SeriesID: "c", Order: 2},
	}

	t.Run("drops matches beyond the threshold", func(t *testing.T) {
		t.Parallel()
		tip := Aggregate(list, results, Options{MultiTooltip: true, PointerPixelThreshold: 10, MaxSeries: 3})
		require.Len(t, tip.Entries, 1)
		assert.Equal(t, "b", tip.Entries[0].SeriesID)
	})

	t.Run("empty but non-nil entries when nothing survives", func(t *testing.T) {
		t.Parallel()
		tip := Aggregate(list, results, Options{MultiTooltip: true, PointerPixelThreshold: 1, MaxSeries: 3})
		require.NotNil(t, tip.Entries)
		assert.True(t, tip.Empty())
		assert.True(t, tip.HasAnchor)
		assert.Equal(t, 110.0, tip.AnchorPixelX)
	})

	t.Run("no located series means no anchor", func(t *testing.T) {
		t.Parallel()
		tip := Aggregate(list, []nearest.Result{{SeriesID: "a"}}, Options{MultiTooltip: true, PointerPixelThreshold: 10, MaxSeries: 3})
		assert.True(t, tip.Empty())
		assert.False(t, tip.HasAnchor)
	})

	t.Run("zero max series yields no entries", func(t *testing.T) {
		t.Parallel()
		tip := Aggregate(list, results, Options{MultiTooltip: true, PointerPixelThreshold: 100, MaxSeries: 0})
		assert.True(t, tip.Empty())
	})
}

func TestAggregateBounds(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	results := []nearest.Result{
		result(0, "a", 10, 2),
		result(1, "b", 20, 4),
		result(2, "c", 30, 1),
	}

	for k := 0; k <= 4; k++ {
		multi := Aggregate(list, results, Options{MultiTooltip: true, PointerPixelThreshold: 10, MaxSeries: k})
		assert.LessOrEqual(t, len(multi.Entries), k)
		for i := 1; i < len(multi.Entries); i++ {
			prev := series.IndexOf(list, multi.Entries[i-1].SeriesID)
			cur := series.IndexOf(list, multi.Entries[i].SeriesID)
			assert.Less(t, prev, cur)
		}

		single := Aggregate(list, results, Options{MultiTooltip: false, PointerPixelThreshold: 10, MaxSeries: k})
		assert.LessOrEqual(t, len(single.Entries), 1)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	list[0].Points[0].Meta = series.Metadata{"unit": "ms"}
	results := []nearest.Result{
		{SeriesID: "a", Order: 0, Found: true, Match: nearest.Match{Point: list[0].Points[0], PixelDistance: 1}},
		result(1, "b", 20, 2),
	}
	opts := Options{MultiTooltip: true, PointerPixelThreshold: 10, MaxSeries: 3}

	first := Aggregate(list, results, opts)
	second := Aggregate(list, results, opts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregate not idempotent (-first +second):\n%s", diff)
	}

	// entries own their metadata
	first.Entries[0].Point.Meta["unit"] = "s"
	assert.Equal(t, "ms", list[0].Points[0].Meta["unit"])
}

func TestAggregateFormatting(t *testing.T) {
	t.Parallel()

	list := threeSeries()
	list[0].Formatter = func(v float64, _ series.Point) string { return fmt.Sprintf("%.1f ms", v) }
	list[1].Formatter = func(float64, series.Point) string { panic("formatter exploded") }

	results := []nearest.Result{
		result(0, "a", 10, 1),
		result(1, "b", 20.25, 1),
		result(2, "c", 30, 1),
	}
	chartFormatter := func(v float64, p series.Point) string { return fmt.Sprintf("chart:%g", v) }

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "warn", Writer: buf})
	require.NoError(t, err)

	var tip Tooltip
	require.NotPanics(t, func() {
		tip = NewAggregator(log).Aggregate(list, results, Options{
			MultiTooltip:          true,
			PointerPixelThreshold: 5,
			MaxSeries:             3,
			Formatter:             chartFormatter,
		}, 7)
	})

	require.Len(t, tip.Entries, 3)
	assert.Equal(t, uint64(7), tip.Version)
	assert.Equal(t, "10.0 ms", tip.Entries[0].Value)
	assert.Equal(t, "20.25", tip.Entries[1].Value, "panicking formatter falls back to plain value")
	assert.Equal(t, "chart:30", tip.Entries[2].Value)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "b", entry["series_id"])
	assert.Equal(t, "formatter exploded", entry["reason"])
}

func TestTooltipClone(t *testing.T) {
	t.Parallel()

	tip := Tooltip{Entries: []Entry{{SeriesID: "a", Point: series.Point{Meta: series.Metadata{"k": 1}}}}}
	clone := tip.Clone()
	clone.Entries[0].SeriesID = "z"
	clone.Entries[0].Point.Meta["k"] = 2

	assert.Equal(t, "a", tip.Entries[0].SeriesID)
	assert.Equal(t, 1, tip.Entries[0].Point.Meta["k"])
}
