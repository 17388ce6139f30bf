package assess

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// Trend describes how one child's percentile moved over time for one metric.
// Slope is in percentile points per month. Crossing is set when the
// percentile moved by at least the configured threshold between the first
// and last measurement.
type Trend struct {
	ChildID         string        `json:"child_id"`
	Metric          growth.Metric `json:"metric"`
	Points          int           `json:"points"`
	FirstAge        float64       `json:"first_age_months"`
	LastAge         float64       `json:"last_age_months"`
	FirstPercentile float64       `json:"first_percentile"`
	LastPercentile  float64       `json:"last_percentile"`
	Slope           float64       `json:"slope"`
	RSquared        float64       `json:"r_squared"`
	Crossing        bool          `json:"crossing"`
}

// Change is the percentile difference between the last and first point.
func (t Trend) Change() float64 {
	return t.LastPercentile - t.FirstPercentile
}

type trendKey struct {
	child  string
	metric growth.Metric
}

// computeTrends fits percentile over age for every (child, metric) series
// with at least minPoints accepted results. Output is sorted by child, then
// metric.
func computeTrends(results []Assessment, minPoints int, crossingThreshold float64) []Trend {
	series := make(map[trendKey][]Assessment)
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		k := trendKey{child: r.ChildID, metric: r.Metric}
		series[k] = append(series[k], r)
	}

	var trends []Trend
	for k, points := range series {
		if len(points) < minPoints || len(points) < 2 {
			continue
		}
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].AgeMonths < points[j].AgeMonths
		})
		trends = append(trends, fitTrend(k, points, crossingThreshold))
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].ChildID != trends[j].ChildID {
			return trends[i].ChildID < trends[j].ChildID
		}
		return trends[i].Metric < trends[j].Metric
	})
	return trends
}

func fitTrend(k trendKey, points []Assessment, crossingThreshold float64) Trend {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.AgeMonths
		ys[i] = p.Percentile
	}

	first, last := points[0], points[len(points)-1]
	t := Trend{
		ChildID:         k.child,
		Metric:          k.metric,
		Points:          len(points),
		FirstAge:        first.AgeMonths,
		LastAge:         last.AgeMonths,
		FirstPercentile: first.Percentile,
		LastPercentile:  last.Percentile,
	}
	t.Crossing = math.Abs(t.Change()) >= crossingThreshold

	// All points at one age leave the slope undefined.
	if first.AgeMonths == last.AgeMonths {
		return t
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	t.Slope = slope
	if stat.Variance(ys, nil) == 0 {
		// A flat series is fitted exactly by a zero slope.
		t.RSquared = 1
		return t
	}
	t.RSquared = stat.RSquared(xs, ys, nil, intercept, slope)
	return t
}
