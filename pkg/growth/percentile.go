package growth

import "math"

// Degraded results. The calculator never fails; these are what it returns
// when it cannot produce a real estimate.
const (
	// NoDataPercentile is returned for a missing or invalid measurement.
	NoDataPercentile = 0.0
	// FallbackPercentile is returned when no reference row applies.
	FallbackPercentile = 50.0
)

// CalculatePercentile estimates the population percentile of a measurement.
//
// value is in the metric's native unit (kg or cm). ageMonths is clamped to
// [MinAgeMonths, MaxAgeMonths] and rounded to the nearest whole month; the
// nearest row is used as is, without interpolating between ages.
//
// Between the 3rd and 97th percentile anchors the result is a piecewise
// linear interpolation. Beyond them it is a linear projection of the nearest
// segment's slope, limited to [0, 100].
func CalculatePercentile(value, ageMonths float64, metric Metric, sex Sex) float64 {
	if !validMeasurement(value) {
		return NoDataPercentile
	}

	anchors, _, ok := anchorsForAge(sex, metric, ageMonths)
	if !ok {
		return FallbackPercentile
	}

	return percentileFromPoints(value, anchors.Points())
}

// ValueAtPercentile is the inverse of CalculatePercentile on the same
// piecewise linear model: it returns the measurement that maps to
// percentile p. Non-finite p or a missing reference row yields 0.
func ValueAtPercentile(p, ageMonths float64, metric Metric, sex Sex) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	p = clamp(p, 0, 100)

	anchors, _, ok := anchorsForAge(sex, metric, ageMonths)
	if !ok {
		return 0
	}

	pts := anchors.Points()
	first, last := pts[0], pts[len(pts)-1]
	switch {
	case p <= first.Percentile:
		return valueOnLine(pts[0], pts[1], p)
	case p >= last.Percentile:
		return valueOnLine(pts[len(pts)-2], last, p)
	}
	for i := 0; i < len(pts)-1; i++ {
		lo, hi := pts[i], pts[i+1]
		if p >= lo.Percentile && p <= hi.Percentile {
			return valueOnLine(lo, hi, p)
		}
	}
	return anchors.P50
}

// AgeIndex returns the whole-month table row used for ageMonths.
// NaN addresses no row.
func AgeIndex(ageMonths float64) (int, bool) {
	if math.IsNaN(ageMonths) {
		return 0, false
	}
	return int(math.Round(clamp(ageMonths, MinAgeMonths, MaxAgeMonths))), true
}

func anchorsForAge(sex Sex, metric Metric, ageMonths float64) (AnchorSet, int, bool) {
	age, ok := AgeIndex(ageMonths)
	if !ok {
		return AnchorSet{}, 0, false
	}
	anchors, ok := Lookup(sex, metric, age)
	return anchors, age, ok
}

func validMeasurement(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value > 0
}

func percentileFromPoints(value float64, pts [5]ControlPoint) float64 {
	first, last := pts[0], pts[len(pts)-1]

	if value <= first.Value {
		return math.Max(0, project(first, pts[1], first, value))
	}
	if value >= last.Value {
		return math.Min(100, project(pts[len(pts)-2], last, last, value))
	}

	for i := 0; i < len(pts)-1; i++ {
		lo, hi := pts[i], pts[i+1]
		if value >= lo.Value && value <= hi.Value {
			if hi.Value == lo.Value {
				return lo.Percentile
			}
			ratio := (value - lo.Value) / (hi.Value - lo.Value)
			return lo.Percentile + ratio*(hi.Percentile-lo.Percentile)
		}
	}

	// Only reachable through floating point gaps between segments.
	return FallbackPercentile
}

// project extends the line through a and b, starting from origin, to value.
func project(a, b, origin ControlPoint, value float64) float64 {
	if b.Value == a.Value {
		return origin.Percentile
	}
	slope := (b.Percentile - a.Percentile) / (b.Value - a.Value)
	return origin.Percentile + (value-origin.Value)*slope
}

// valueOnLine returns the value at percentile p on the line through a and b.
func valueOnLine(a, b ControlPoint, p float64) float64 {
	if b.Percentile == a.Percentile {
		return a.Value
	}
	ratio := (p - a.Percentile) / (b.Percentile - a.Percentile)
	return a.Value + ratio*(b.Value-a.Value)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
