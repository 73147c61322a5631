package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PlotBounds is the pixel size of a chart's plotting area.
type PlotBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsDegenerate reports whether the bounds cannot host a pixel↔data mapping.
func (b PlotBounds) IsDegenerate() bool {
	return !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0)
}

// Contains reports whether a local pixel lies inside the bounds (edges included).
func (b PlotBounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// Clamp pins a local pixel into the bounds.
func (b PlotBounds) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, b.Width), clamp(y, 0, b.Height)
}

// RootOffset is the page position of the plotting area's top-left corner.
type RootOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToLocal translates page coordinates into plot-local pixels.
func (o RootOffset) ToLocal(pageX, pageY float64) (float64, float64) {
	return pageX - o.X, pageY - o.Y
}

// ToPage translates plot-local pixels into page coordinates.
func (o RootOffset) ToPage(x, y float64) (float64, float64) {
	return x + o.X, y + o.Y
}

// DataCoordinate is a position in data space. Degenerate coordinates were
// produced from unusable bounds or input and sit at the domain minimum.
type DataCoordinate struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// Resolve maps a plot-local pixel to data space. Pixels outside the bounds
// are clamped. Zero-size bounds, NaN input or missing scales never panic and
// produce a degenerate coordinate at the domain minimum.
func Resolve(pixelX, pixelY float64, bounds PlotBounds, xScale, yScale Scale) DataCoordinate {
	if bounds.IsDegenerate() || math.IsNaN(pixelX) || math.IsNaN(pixelY) || xScale == nil || yScale == nil {
		return degenerate(xScale, yScale)
	}

	x, y := bounds.Clamp(pixelX, pixelY)
	return DataCoordinate{
		X: xScale.ToData(x),
		Y: yScale.ToData(y),
	}
}

func degenerate(xScale, yScale Scale) DataCoordinate {
	coord := DataCoordinate{Degenerate: true}
	if xScale != nil {
		coord.X, _ = xScale.Domain()
	}
	if yScale != nil {
		coord.Y, _ = yScale.Domain()
	}
	return coord
}

// Extent returns the minimum and maximum of values, ignoring NaNs.
// ok is false when no finite value is present.
func Extent(values []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
