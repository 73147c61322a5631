package geometry

import "math"

// Scale is a monotonic mapping between data values and pixels along one axis.
type Scale interface {
	// Domain returns the data extent as (min, max).
	Domain() (float64, float64)
	// ToPixel maps a data value to a pixel.
	ToPixel(v float64) float64
	// ToData maps a pixel back to a data value.
	ToData(px float64) float64
}

// LinearScale maps [DomainMin, DomainMax] onto [RangeMin, RangeMax].
// RangeMin may exceed RangeMax, which is how y axes grow upwards.
type LinearScale struct {
	DomainMin float64
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// NewLinearScale creates a linear scale.
func NewLinearScale(domainMin, domainMax, rangeMin, rangeMax float64) LinearScale {
	return LinearScale{DomainMin: domainMin, DomainMax: domainMax, RangeMin: rangeMin, RangeMax: rangeMax}
}

// Domain implements Scale.
func (s LinearScale) Domain() (float64, float64) {
	return s.DomainMin, s.DomainMax
}

// ToPixel implements Scale. A zero-width domain maps everything to RangeMin.
func (s LinearScale) ToPixel(v float64) float64 {
	span := s.DomainMax - s.DomainMin
	if span == 0 || math.IsNaN(span) {
		return s.RangeMin
	}
	return s.RangeMin + (v-s.DomainMin)/span*(s.RangeMax-s.RangeMin)
}

// ToData implements Scale. A zero-width range maps everything to DomainMin.
func (s LinearScale) ToData(px float64) float64 {
	span := s.RangeMax - s.RangeMin
	if span == 0 || math.IsNaN(span) {
		return s.DomainMin
	}
	return s.DomainMin + (px-s.RangeMin)/span*(s.DomainMax-s.DomainMin)
}

// WithRange returns a copy of the scale spanning a new pixel range.
func (s LinearScale) WithRange(rangeMin, rangeMax float64) Scale {
	s.RangeMin = rangeMin
	s.RangeMax = rangeMax
	return s
}

// BandScale maps ordinal categories to equal-width pixel bands. Data values
// are band indices; index i sits at the center of band i.
type BandScale struct {
	Categories []string
	RangeMin   float64
	RangeMax   float64
}

// NewBandScale creates a band scale over the given categories.
func NewBandScale(categories []string, rangeMin, rangeMax float64) BandScale {
	return BandScale{Categories: append([]string(nil), categories...), RangeMin: rangeMin, RangeMax: rangeMax}
}

// Domain implements Scale.
func (s BandScale) Domain() (float64, float64) {
	if len(s.Categories) == 0 {
		return 0, 0
	}
	return 0, float64(len(s.Categories) - 1)
}

// Bandwidth returns the pixel width of a single band.
func (s BandScale) Bandwidth() float64 {
	if len(s.Categories) == 0 {
		return 0
	}
	return (s.RangeMax - s.RangeMin) / float64(len(s.Categories))
}

// ToPixel implements Scale.
func (s BandScale) ToPixel(v float64) float64 {
	return s.RangeMin + s.Bandwidth()*(v+0.5)
}

// ToData implements Scale. The result is a fractional band index clamped to
// the category range.
func (s BandScale) ToData(px float64) float64 {
	bw := s.Bandwidth()
	if bw == 0 || math.IsNaN(bw) {
		return 0
	}
	lo, hi := s.Domain()
	return clamp((px-s.RangeMin)/bw-0.5, lo, hi)
}

// Category returns the label of the band nearest to v.
func (s BandScale) Category(v float64) (string, bool) {
	if len(s.Categories) == 0 || math.IsNaN(v) {
		return "", false
	}
	i := int(math.Round(v))
	if i < 0 || i >= len(s.Categories) {
		return "", false
	}
	return s.Categories[i], true
}

// WithRange returns a copy of the scale spanning a new pixel range.
func (s BandScale) WithRange(rangeMin, rangeMax float64) Scale {
	s.RangeMin = rangeMin
	s.RangeMax = rangeMax
	return s
}

// Ranged is implemented by scales whose pixel range can be re-fitted on
// layout changes.
type Ranged interface {
	Scale
	WithRange(rangeMin, rangeMax float64) Scale
}

// Fit re-ranges x across [0, width] and y across [height, 0] so data grows
// upwards. Scales that cannot be re-ranged are returned unchanged.
func Fit(xScale, yScale Scale, bounds PlotBounds) (Scale, Scale) {
	if r, ok := xScale.(Ranged); ok {
		xScale = r.WithRange(0, bounds.Width)
	}
	if r, ok := yScale.(Ranged); ok {
		yScale = r.WithRange(bounds.Height, 0)
	}
	return xScale, yScale
}
