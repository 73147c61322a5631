package nearest

import (
	"math"
	"sort"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
)

// Lookup selects how distance to a point is measured.
type Lookup string

const (
	// LookupX matches on the x axis only (line, bar, area charts).
	LookupX Lookup = "x"
	// LookupXY matches on euclidean pixel distance (scatter charts).
	LookupXY Lookup = "xy"
)

// Match is the point of a series closest to a query.
type Match struct {
	Index         int
	Point         series.Point
	PixelX        float64
	PixelY        float64
	PixelDistance float64
}

// Result is the outcome of a lookup against one series. Found is false for
// series that do not contribute (empty, or unusable query).
type Result struct {
	SeriesID string
	// Order is the registration index of the series within its chart.
	Order int
	Found bool
	Match Match
}

// Locate returns the point of s whose x is closest to dataX. Neighbors are
// found by binary search; equal distances resolve to the higher index.
// PixelDistance is measured along x only.
func Locate(s series.Series, dataX float64, xScale geometry.Scale) (Match, bool) {
	n := len(s.Points)
	if n == 0 || xScale == nil || math.IsNaN(dataX) {
		return Match{}, false
	}

	idx := closestIndex(s.Points, dataX)
	p := s.Points[idx]
	px := xScale.ToPixel(p.X)
	return Match{
		Index:         idx,
		Point:         p,
		PixelX:        px,
		PixelDistance: math.Abs(px - xScale.ToPixel(dataX)),
	}, true
}

// closestIndex assumes points are sorted ascending by x and non-empty.
func closestIndex(points []series.Point, q float64) int {
	n := len(points)
	// first index strictly greater than q; points[i-1] is the last <= q
	i := sort.Search(n, func(i int) bool { return points[i].X > q })

	var idx int
	switch {
	case i == n:
		return n - 1
	case i == 0:
		idx = 0
	default:
		left := q - points[i-1].X
		right := points[i].X - q
		if left < right {
			return i - 1
		}
		idx = i
	}

	for idx+1 < n && points[idx+1].X == points[idx].X {
		idx++
	}
	return idx
}

// LocateXY returns the point of s closest to (dataX, dataY) in pixel space.
// The search starts at the binary-search insertion index and walks outwards
// only while the horizontal distance alone could still beat the best match.
func LocateXY(s series.Series, dataX, dataY float64, xScale, yScale geometry.Scale) (Match, bool) {
	n := len(s.Points)
	if n == 0 || xScale == nil || yScale == nil || math.IsNaN(dataX) || math.IsNaN(dataY) {
		return Match{}, false
	}

	qx := xScale.ToPixel(dataX)
	qy := yScale.ToPixel(dataY)
	start := sort.Search(n, func(i int) bool { return s.Points[i].X > dataX })

	best := -1
	bestD := math.Inf(1)
	var bestPX, bestPY float64

	// Walking right visits increasing indices, so ties replace.
	for j := start; j < n; j++ {
		px := xScale.ToPixel(s.Points[j].X)
		dx := math.Abs(px - qx)
		if dx > bestD {
			break
		}
		py := yScale.ToPixel(s.Points[j].Y)
		if d := math.Hypot(dx, py-qy); d <= bestD {
			best, bestD, bestPX, bestPY = j, d, px, py
		}
	}
	// Walking left visits decreasing indices, so ties keep the current best.
	for j := start - 1; j >= 0; j-- {
		px := xScale.ToPixel(s.Points[j].X)
		dx := math.Abs(px - qx)
		if dx > bestD {
			break
		}
		py := yScale.ToPixel(s.Points[j].Y)
		if d := math.Hypot(dx, py-qy); d < bestD {
			best, bestD, bestPX, bestPY = j, d, px, py
		}
	}

	if best < 0 {
		return Match{}, false
	}
	return Match{
		Index:         best,
		Point:         s.Points[best],
		PixelX:        bestPX,
		PixelY:        bestPY,
		PixelDistance: bestD,
	}, true
}

// LocateAll runs a lookup against every series and returns one result per
// series in registration order.
func LocateAll(list []series.Series, coord geometry.DataCoordinate, xScale, yScale geometry.Scale, lookup Lookup) []Result {
	results := make([]Result, len(list))
	for i, s := range list {
		results[i] = Result{SeriesID: s.ID, Order: i}

		var (
			m  Match
			ok bool
		)
		if lookup == LookupXY {
			m, ok = LocateXY(s, coord.X, coord.Y, xScale, yScale)
		} else {
			m, ok = Locate(s, coord.X, xScale)
			if ok && yScale != nil {
				m.PixelY = yScale.ToPixel(m.Point.Y)
			}
		}
		results[i].Found = ok
		results[i].Match = m
	}
	return results
}
