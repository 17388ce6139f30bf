package growth

import "math"

// Result bundles everything a caller usually shows for one measurement.
type Result struct {
	Sex        Sex       `json:"sex"`
	Metric     Metric    `json:"metric"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	AgeMonths  float64   `json:"age_months"`
	AgeUsed    int       `json:"age_used"`
	Percentile float64   `json:"percentile"`
	Status     Status    `json:"status"`
	Anchors    AnchorSet `json:"anchors"`
	// HasData is false when the measurement was rejected. Percentile is then
	// 0 and must be read as "not applicable", not as the 0th percentile.
	HasData bool `json:"has_data"`
}

// Assess computes the percentile and status of a measurement in one call.
func Assess(value, ageMonths float64, metric Metric, sex Sex, locale Locale) Result {
	r := Result{
		Sex:       sex,
		Metric:    metric,
		Value:     finiteOrZero(value),
		Unit:      metric.Unit(),
		AgeMonths: finiteOrZero(ageMonths),
		HasData:   validMeasurement(value),
	}
	if anchors, age, ok := anchorsForAge(sex, metric, ageMonths); ok {
		r.Anchors = anchors
		r.AgeUsed = age
	}
	r.Percentile = CalculatePercentile(value, ageMonths, metric, sex)
	r.Status = GetPercentileStatusLocale(r.Percentile, locale)
	return r
}

// finiteOrZero keeps Result encodable; JSON has no NaN or Inf.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
