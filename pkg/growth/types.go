// Package growth converts infant measurements into WHO growth-standard
// percentiles and classifies those percentiles into clinical status bands.
//
// Everything in this package is pure: the reference table is static data
// initialized at compile time and every function is total, so callers may
// invoke it from any goroutine without coordination.
package growth

import (
	"fmt"
	"strings"
)

// Supported age range of the reference table, in whole months.
const (
	MinAgeMonths = 0
	MaxAgeMonths = 24
)

// Sex selects the reference population.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Sexes returns all supported sexes.
func Sexes() []Sex {
	return []Sex{SexMale, SexFemale}
}

// ParseSex parses a sex selector, case-insensitive.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "boy":
		return SexMale, nil
	case "female", "f", "girl":
		return SexFemale, nil
	default:
		return "", fmt.Errorf("invalid sex: %q", s)
	}
}

func (s Sex) index() (int, bool) {
	switch s {
	case SexMale:
		return 0, true
	case SexFemale:
		return 1, true
	default:
		return 0, false
	}
}

// Metric selects the measured quantity.
type Metric string

const (
	MetricWeight            Metric = "weight"
	MetricLength            Metric = "length"
	MetricHeadCircumference Metric = "head_circumference"
)

// Metrics returns all supported metrics.
func Metrics() []Metric {
	return []Metric{MetricWeight, MetricLength, MetricHeadCircumference}
}

// ParseMetric parses a metric selector, accepting the common short forms.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight", "wfa", "weight_for_age":
		return MetricWeight, nil
	case "length", "height", "lfa", "length_for_age":
		return MetricLength, nil
	case "head_circumference", "head-circumference", "head", "hc", "hcfa":
		return MetricHeadCircumference, nil
	default:
		return "", fmt.Errorf("invalid metric: %q", s)
	}
}

// Unit returns the native unit of the metric. No conversion is ever applied.
func (m Metric) Unit() string {
	if m == MetricWeight {
		return "kg"
	}
	return "cm"
}

func (m Metric) index() (int, bool) {
	switch m {
	case MetricWeight:
		return 0, true
	case MetricLength:
		return 1, true
	case MetricHeadCircumference:
		return 2, true
	default:
		return 0, false
	}
}

// AnchorSet holds the metric values at the 3rd, 15th, 50th, 85th and 97th
// population percentiles for one sex, metric and age.
type AnchorSet struct {
	P3  float64 `json:"p3"`
	P15 float64 `json:"p15"`
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P97 float64 `json:"p97"`
}

// ControlPoint pairs a percentile with the metric value at that percentile.
type ControlPoint struct {
	Percentile float64
	Value      float64
}

// Points returns the five control points in increasing percentile order.
func (a AnchorSet) Points() [5]ControlPoint {
	return [5]ControlPoint{
		{3, a.P3},
		{15, a.P15},
		{50, a.P50},
		{85, a.P85},
		{97, a.P97},
	}
}

// Ordered reports whether the anchor values are non-decreasing.
func (a AnchorSet) Ordered() bool {
	return a.P3 <= a.P15 && a.P15 <= a.P50 && a.P50 <= a.P85 && a.P85 <= a.P97
}

// String methods for toon serialization, which uses fmt.Stringer.

func (s Sex) String() string { return string(s) }

func (m Metric) String() string { return string(m) }
