package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FollowCrosshair anchors the tooltip popover to the crosshair line.
	FollowCrosshair = "crosshair"
	// FollowPointer anchors the tooltip popover to the pointer.
	FollowPointer = "pointer"

	// LookupX matches points on the x axis only.
	LookupX = "x"
	// LookupXY matches points on euclidean pixel distance.
	LookupXY = "xy"

	// AxisLinear is a continuous numeric axis.
	AxisLinear = "linear"
	// AxisBand is an ordinal axis of equal-width category bands.
	AxisBand = "band"
)

// Document represents a full chart document.
type Document struct {
	Version     string            `yaml:"version" validate:"required,semver"`
	Name        string            `yaml:"name" validate:"required,min=1,max=100"`
	Description string            `yaml:"description,omitempty"`
	Format      string            `yaml:"format,omitempty"`
	Interaction InteractionConfig `yaml:"interaction,omitempty"`
	XAxis       Axis              `yaml:"x_axis,omitempty"`
	YAxis       Axis              `yaml:"y_axis,omitempty"`
	Series      []SeriesSpec      `yaml:"series" validate:"required,min=1,dive"`
}

// InteractionConfig controls crosshair, tooltip and popover behavior of a chart.
type InteractionConfig struct {
	EnableCrosshair         bool          `yaml:"enable_crosshair" json:"enable_crosshair"`
	MultiTooltip            bool          `yaml:"multi_tooltip" json:"multi_tooltip"`
	LiveTooltip             bool          `yaml:"live_tooltip" json:"live_tooltip"`
	PopoverFollowMode       string        `yaml:"popover_follow_mode" json:"popover_follow_mode" validate:"oneof=crosshair pointer"`
	PopoverPortal           bool          `yaml:"popover_portal" json:"popover_portal"`
	StickyCrosshair         bool          `yaml:"sticky_crosshair" json:"sticky_crosshair"`
	StickyTimeout           time.Duration `yaml:"sticky_timeout" json:"sticky_timeout" validate:"gte=0"`
	PointerPixelThreshold   float64       `yaml:"pointer_pixel_threshold" json:"pointer_pixel_threshold" validate:"gte=0"`
	CrosshairPixelThreshold float64       `yaml:"crosshair_pixel_threshold" json:"crosshair_pixel_threshold" validate:"gte=0"`
	AggregatorMaxSeries     int           `yaml:"aggregator_max_series" json:"aggregator_max_series" validate:"gte=0"`
	Lookup                  string        `yaml:"lookup" json:"lookup" validate:"oneof=x xy"`
}

// DefaultInteraction returns the interaction settings used when a document omits them.
func DefaultInteraction() InteractionConfig {
	return InteractionConfig{
		EnableCrosshair:         true,
		MultiTooltip:            true,
		LiveTooltip:             true,
		PopoverFollowMode:       FollowCrosshair,
		StickyTimeout:           1500 * time.Millisecond,
		PointerPixelThreshold:   32,
		CrosshairPixelThreshold: 8,
		AggregatorMaxSeries:     8,
		Lookup:                  LookupX,
	}
}

// Normalize fills empty enumerations with their defaults.
func (c InteractionConfig) Normalize() InteractionConfig {
	if c.PopoverFollowMode == "" {
		c.PopoverFollowMode = FollowCrosshair
	}
	if c.Lookup == "" {
		c.Lookup = LookupX
	}
	return c
}

// UnmarshalYAML applies defaults for keys the document leaves out.
func (c *InteractionConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawInteraction InteractionConfig
	temp := rawInteraction(DefaultInteraction())
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*c = InteractionConfig(temp).Normalize()
	return nil
}

// Axis describes one chart axis. Min and Max default to the data extent.
type Axis struct {
	Type       string   `yaml:"type,omitempty" validate:"omitempty,oneof=linear band"`
	Min        *float64 `yaml:"min,omitempty"`
	Max        *float64 `yaml:"max,omitempty"`
	Categories []string `yaml:"categories,omitempty" validate:"omitempty,dive,min=1"`
}

// Kind returns the axis type, defaulting to linear.
func (a Axis) Kind() string {
	if a.Type == "" {
		return AxisLinear
	}
	return a.Type
}

// SeriesSpec declares one series. Exactly one of Points, Values or Source supplies its data.
type SeriesSpec struct {
	ID     string         `yaml:"id" validate:"required,series_id"`
	Label  string         `yaml:"label,omitempty" validate:"max=100"`
	Color  string         `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Format string         `yaml:"format,omitempty"`
	Points [][]float64    `yaml:"points,omitempty" validate:"omitempty,dive,len=2"`
	Values []float64      `yaml:"values,omitempty"`
	Source *SourceSpec    `yaml:"source,omitempty"`
	Meta   map[string]any `yaml:"meta,omitempty"`
}

// SourceSpec points a series at columns of an .xlsx workbook.
type SourceSpec struct {
	Path    string `yaml:"path" validate:"required"`
	Sheet   string `yaml:"sheet,omitempty"`
	XColumn string `yaml:"x_column" validate:"required,alpha,uppercase"`
	YColumn string `yaml:"y_column" validate:"required,alpha,uppercase"`
	Header  bool   `yaml:"header,omitempty"`
}

// SeriesIndex builds a lookup table for series specs by ID.
func SeriesIndex(series []SeriesSpec) map[string]int {
	out := make(map[string]int, len(series))
	for i, s := range series {
		out[s.ID] = i
	}
	return out
}
