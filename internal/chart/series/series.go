package series

import (
	"fmt"
	"maps"
	"math"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

// Formatter renders a raw value of a matched point for display in a tooltip.
type Formatter func(value float64, p Point) string

// Metadata is an open key/value slot attached to series and points.
type Metadata map[string]any

// String returns the value stored under key when it is a string.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// Float returns the value stored under key as a float64, accepting any Go numeric type.
func (m Metadata) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Bool returns the value stored under key when it is a bool.
func (m Metadata) Bool(key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}

// Clone returns a shallow copy of the map. Nil stays nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Point is a single sample of a series.
type Point struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Category string   `json:"category,omitempty"`
	Meta     Metadata `json:"meta,omitempty"`
}

// Clone returns a copy of the point that shares no mutable state with p.
func (p Point) Clone() Point {
	p.Meta = p.Meta.Clone()
	return p
}

// Series is one named, ordered dataset plotted on a chart.
type Series struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Color     string    `json:"color,omitempty"`
	Points    []Point   `json:"points"`
	Formatter Formatter `json:"-"`
	Meta      Metadata  `json:"meta,omitempty"`
}

// DisplayLabel returns the label, falling back to the ID.
func (s Series) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.ID
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// Xs returns the x values of every point in order.
func (s Series) Xs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.X
	}
	return out
}

// Ys returns the y values of every point in order.
func (s Series) Ys() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}

// Validate checks that every series has a non-empty unique ID and that its
// points have finite x values sorted ascending. The first violation is reported.
func Validate(list []Series) error {
	seen := make(map[string]int, len(list))
	for i, s := range list {
		field := fmt.Sprintf("series[%d]", i)
		if s.ID == "" {
			return crosserrors.NewValidationError(field+".id", "series id is required", nil)
		}
		if prev, ok := seen[s.ID]; ok {
			return crosserrors.NewValidationError(field+".id", fmt.Sprintf("duplicate series id %q (first used by series[%d])", s.ID, prev), nil)
		}
		seen[s.ID] = i

		for j, p := range s.Points {
			if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
				return crosserrors.NewValidationError(
					fmt.Sprintf("%s.points[%d].x", field, j),
					fmt.Sprintf("x of series %q must be finite, got %g", s.ID, p.X),
					nil,
				)
			}
			if j > 0 && p.X < s.Points[j-1].X {
				return crosserrors.NewValidationError(
					fmt.Sprintf("%s.points[%d]", field, j),
					fmt.Sprintf("points of series %q must be sorted ascending by x (%g after %g)", s.ID, p.X, s.Points[j-1].X),
					nil,
				)
			}
		}
	}
	return nil
}

// IndexOf returns the registration index of the series with the given ID.
func IndexOf(list []Series, id string) int {
	for i, s := range list {
		if s.ID == id {
			return i
		}
	}
	return -1
}
