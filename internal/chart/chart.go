// Package chart assembles chart documents into series and scales and wires
// them into interaction contexts.
package chart

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
	"github.com/alexisbeaulieu97/crosshair/internal/dataset"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/progress"
)

// Chart is a fully loaded chart ready to drive interaction contexts.
type Chart struct {
	Name        string
	Description string
	Series      []series.Series
	XScale      geometry.Scale
	YScale      geometry.Scale
	Interaction config.InteractionConfig
	Formatter   series.Formatter
	// Categories holds the x band labels of ordinal charts.
	Categories []string
}

type buildOptions struct {
	log      *logger.Logger
	progress *progress.Controller
}

// BuildOption customises Build.
type BuildOption func(*buildOptions)

// WithLogger reports loading through log.
func WithLogger(log *logger.Logger) BuildOption {
	return func(o *buildOptions) {
		o.log = log
	}
}

// WithProgress drives ctrl while series are loaded.
func WithProgress(ctrl *progress.Controller) BuildOption {
	return func(o *buildOptions) {
		o.progress = ctrl
	}
}

// Load parses the document at path and builds it. Relative sources are
// resolved against the document's directory.
func Load(path string, opts ...BuildOption) (*Chart, error) {
	doc, err := config.ParseConfig(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, filepath.Dir(path), opts...)
}

// Build loads every series of doc and derives its scales. Scales span a unit
// pixel range until an interaction context fits them to a layout.
func Build(doc *config.Document, baseDir string, opts ...BuildOption) (*Chart, error) {
	if err := config.ValidateDocument(doc); err != nil {
		return nil, err
	}

	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Chart{
		Name:        doc.Name,
		Description: doc.Description,
		Interaction: doc.Interaction.Normalize(),
		Formatter:   FormatterFor(doc.Format),
	}
	if doc.XAxis.Kind() == config.AxisBand {
		c.Categories = append([]string(nil), doc.XAxis.Categories...)
	}

	if o.progress != nil {
		o.progress.Start()
	}
	for i, spec := range doc.Series {
		s, err := c.loadSeries(spec, baseDir)
		if err != nil {
			if o.progress != nil {
				o.progress.Stop()
			}
			return nil, err
		}
		c.Series = append(c.Series, s)

		o.log.Debug("series loaded", "series_id", s.ID, "points", s.Len())
		if o.progress != nil {
			o.progress.Set(float64(i+1) / float64(len(doc.Series)) * 100)
		}
	}

	if err := series.Validate(c.Series); err != nil {
		if o.progress != nil {
			o.progress.Stop()
		}
		return nil, err
	}

	c.XScale = c.xScale(doc.XAxis)
	c.YScale = c.yScale(doc.YAxis)

	if o.progress != nil {
		o.progress.Complete()
	}
	o.log.Info("chart built", "chart", c.Name, "series", len(c.Series))
	return c, nil
}

func (c *Chart) loadSeries(spec config.SeriesSpec, baseDir string) (series.Series, error) {
	s := series.Series{
		ID:        spec.ID,
		Label:     spec.Label,
		Color:     spec.Color,
		Formatter: FormatterFor(spec.Format),
		Meta:      series.Metadata(spec.Meta).Clone(),
	}

	switch {
	case spec.Source != nil:
		points, err := dataset.LoadXLSX(spec.ID, *spec.Source, baseDir)
		if err != nil {
			return series.Series{}, err
		}
		s.Points = points
	case len(spec.Values) > 0:
		s.Points = make([]series.Point, len(spec.Values))
		for i, v := range spec.Values {
			s.Points[i] = series.Point{X: float64(i), Y: v}
		}
	default:
		s.Points = make([]series.Point, len(spec.Points))
		for i, xy := range spec.Points {
			s.Points[i] = series.Point{X: xy[0], Y: xy[1]}
		}
	}

	for i := range s.Points {
		if s.Points[i].Category != "" {
			continue
		}
		if label, ok := c.category(s.Points[i].X); ok {
			s.Points[i].Category = label
		}
	}
	return s, nil
}

func (c *Chart) category(x float64) (string, bool) {
	if len(c.Categories) == 0 {
		return "", false
	}
	return geometry.NewBandScale(c.Categories, 0, 1).Category(x)
}

func (c *Chart) xScale(axis config.Axis) geometry.Scale {
	if axis.Kind() == config.AxisBand {
		return geometry.NewBandScale(axis.Categories, 0, 1)
	}
	var xs []float64
	for _, s := range c.Series {
		xs = append(xs, s.Xs()...)
	}
	lo, hi := domain(axis, xs)
	return geometry.NewLinearScale(lo, hi, 0, 1)
}

func (c *Chart) yScale(axis config.Axis) geometry.Scale {
	var ys []float64
	for _, s := range c.Series {
		ys = append(ys, s.Ys()...)
	}
	lo, hi := domain(axis, ys)
	return geometry.NewLinearScale(lo, hi, 1, 0)
}

// domain applies explicit axis bounds over the data extent. Empty or flat
// extents are widened so the scale stays invertible.
func domain(axis config.Axis, values []float64) (float64, float64) {
	lo, hi, ok := geometry.Extent(values)
	if !ok {
		lo, hi = 0, 1
	}
	if axis.Min != nil {
		lo = *axis.Min
	}
	if axis.Max != nil {
		hi = *axis.Max
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// FormatterFor turns a printf pattern into a formatter. A pattern without a
// verb is appended to the plain value as a unit suffix. An empty pattern
// yields nil so the next formatter in line applies.
func FormatterFor(pattern string) series.Formatter {
	if pattern == "" {
		return nil
	}
	if !strings.Contains(pattern, "%") {
		return func(v float64, _ series.Point) string {
			return fmt.Sprintf("%g%s", v, pattern)
		}
	}
	return func(v float64, _ series.Point) string {
		return fmt.Sprintf(pattern, v)
	}
}

// NewContext creates an interaction context wired to the chart's series,
// scales and formatter. The caller supplies the layout.
func (c *Chart) NewContext(opts interaction.Options) (*interaction.Context, error) {
	ctx, err := interaction.New(c.Interaction, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.SetSeries(c.Series); err != nil {
		return nil, err
	}
	ctx.SetScales(c.XScale, c.YScale)
	ctx.SetFormatter(c.Formatter)
	return ctx, nil
}

// Probe replays an enter followed by a press at a plot-local pixel and returns
// the resulting snapshot. The press always builds the tooltip, even when live
// tooltips are disabled.
func (c *Chart) Probe(pixelX, pixelY float64, bounds geometry.PlotBounds) (interaction.Snapshot, error) {
	ctx, err := c.NewContext(interaction.Options{ID: "probe"})
	if err != nil {
		return interaction.Snapshot{}, err
	}
	ctx.SetLayout(bounds, geometry.RootOffset{})
	ctx.PointerEnter(pixelX, pixelY)
	return ctx.PointerDown(pixelX, pixelY), nil
}
