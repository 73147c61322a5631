package tooltip

import (
	"fmt"
	"math"
	"strconv"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/nearest"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
)

// Entry is one series row of an aggregated tooltip.
type Entry struct {
	SeriesID      string       `json:"series_id"`
	Label         string       `json:"label"`
	Color         string       `json:"color,omitempty"`
	Point         series.Point `json:"point"`
	Index         int          `json:"index"`
	PixelX        float64      `json:"pixel_x"`
	PixelY        float64      `json:"pixel_y"`
	PixelDistance float64      `json:"pixel_distance"`
	Value         string       `json:"value"`
}

// Tooltip is the merged tooltip payload. Entries are always in series
// registration order and never nil.
type Tooltip struct {
	Entries      []Entry `json:"entries"`
	AnchorPixelX float64 `json:"anchor_pixel_x"`
	AnchorPixelY float64 `json:"anchor_pixel_y"`
	HasAnchor    bool    `json:"has_anchor"`
	Version      uint64  `json:"version"`
}

// Empty reports whether no entry survived filtering.
func (t Tooltip) Empty() bool {
	return len(t.Entries) == 0
}

// Clone returns a deep copy of the tooltip.
func (t Tooltip) Clone() Tooltip {
	entries := make([]Entry, len(t.Entries))
	for i, e := range t.Entries {
		e.Point = e.Point.Clone()
		entries[i] = e
	}
	t.Entries = entries
	return t
}

// Options controls how per-series lookups are merged.
type Options struct {
	MultiTooltip          bool
	PointerPixelThreshold float64
	MaxSeries             int
	// Formatter is the chart-wide fallback used when a series has none.
	Formatter series.Formatter
}

// FormatFailure describes a formatter that panicked while rendering an entry.
type FormatFailure struct {
	SeriesID string
	Index    int
	Reason   any
}

// Aggregate merges lookup results into a tooltip. results must be indexed by
// registration order and list must be the series they were computed from.
// The function is pure: identical inputs give identical output and Version is
// left zero for the caller to stamp.
func Aggregate(list []series.Series, results []nearest.Result, opts Options) Tooltip {
	t, _ := aggregate(list, results, opts)
	return t
}

func aggregate(list []series.Series, results []nearest.Result, opts Options) (Tooltip, []FormatFailure) {
	out := Tooltip{Entries: []Entry{}}

	nearestIdx := -1
	survivors := make([]int, 0, len(results))
	for i, r := range results {
		if !r.Found {
			continue
		}
		if nearestIdx < 0 || r.Match.PixelDistance < results[nearestIdx].Match.PixelDistance {
			nearestIdx = i
		}
		if r.Match.PixelDistance > opts.PointerPixelThreshold || math.IsNaN(r.Match.PixelDistance) {
			continue
		}
		survivors = append(survivors, i)
	}

	if nearestIdx >= 0 {
		out.HasAnchor = true
		out.AnchorPixelX = results[nearestIdx].Match.PixelX
		out.AnchorPixelY = results[nearestIdx].Match.PixelY
	}

	if !opts.MultiTooltip {
		best := -1
		for _, i := range survivors {
			// strict comparison keeps the earliest registered series on ties
			if best < 0 || results[i].Match.PixelDistance < results[best].Match.PixelDistance {
				best = i
			}
		}
		survivors = survivors[:0]
		if best >= 0 {
			survivors = append(survivors, best)
		}
	} else {
		limit := opts.MaxSeries
		if limit < 0 {
			limit = 0
		}
		if len(survivors) > limit {
			survivors = survivors[:limit]
		}
	}

	var failures []FormatFailure
	for _, i := range survivors {
		r := results[i]
		var s series.Series
		if r.Order >= 0 && r.Order < len(list) {
			s = list[r.Order]
		}
		value, failure := formatValue(s, r.Match.Point, opts.Formatter)
		if failure != nil {
			failure.Index = r.Match.Index
			failure.SeriesID = r.SeriesID
			failures = append(failures, *failure)
		}
		out.Entries = append(out.Entries, Entry{
			SeriesID:      r.SeriesID,
			Label:         labelFor(s, r.SeriesID),
			Color:         s.Color,
			Point:         r.Match.Point.Clone(),
			Index:         r.Match.Index,
			PixelX:        r.Match.PixelX,
			PixelY:        r.Match.PixelY,
			PixelDistance: r.Match.PixelDistance,
			Value:         value,
		})
	}

	return out, failures
}

func labelFor(s series.Series, fallback string) string {
	if s.ID == "" {
		return fallback
	}
	return s.DisplayLabel()
}

// formatValue applies the series formatter, then the chart formatter, then
// the plain representation. A panicking formatter falls back to the plain
// representation.
func formatValue(s series.Series, p series.Point, chartFormatter series.Formatter) (value string, failure *FormatFailure) {
	formatter := s.Formatter
	if formatter == nil {
		formatter = chartFormatter
	}
	if formatter == nil {
		return PlainValue(p.Y), nil
	}

	defer func() {
		if r := recover(); r != nil {
			value = PlainValue(p.Y)
			failure = &FormatFailure{Reason: r}
		}
	}()
	return formatter(p.Y, p), nil
}

// PlainValue is the formatter-free representation of a value.
func PlainValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Aggregator stamps tooltips with a version and reports formatter failures.
type Aggregator struct {
	log *logger.Logger
}

// NewAggregator creates an aggregator. A nil logger silences failure reports.
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{log: log}
}

// Aggregate merges results like the package-level Aggregate and stamps the
// supplied version.
func (a *Aggregator) Aggregate(list []series.Series, results []nearest.Result, opts Options, version uint64) Tooltip {
	t, failures := aggregate(list, results, opts)
	t.Version = version
	if a != nil {
		for _, f := range failures {
			a.log.Warn("tooltip formatter failed, using plain value",
				"series_id", f.SeriesID,
				"index", f.Index,
				"reason", fmt.Sprint(f.Reason),
			)
		}
	}
	return t
}
