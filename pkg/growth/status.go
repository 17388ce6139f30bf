package growth

import (
	"fmt"
	"math"
	"strings"
)

// StatusCode identifies a clinical status band.
type StatusCode string

const (
	StatusVeryLow  StatusCode = "very_low"
	StatusLow      StatusCode = "low"
	StatusNormal   StatusCode = "normal"
	StatusHigh     StatusCode = "high"
	StatusVeryHigh StatusCode = "very_high"
)

func (s StatusCode) String() string { return string(s) }

// Status is the display record for a percentile band.
type Status struct {
	Code            StatusCode `json:"status"`
	Color           string     `json:"color"`
	BackgroundColor string     `json:"background_color"`
	Label           string     `json:"label"`
}

// Locale selects the language of status labels.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleHebrew  Locale = "he"
)

func (l Locale) String() string { return string(l) }

// ParseLocale maps a language tag such as "he-IL" onto a supported locale.
// Anything unrecognized is English.
func ParseLocale(s string) Locale {
	tag := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch tag {
	case "he", "iw":
		return LocaleHebrew
	default:
		return LocaleEnglish
	}
}

// Band describes one status band and the percentile range it covers.
// The Inclusive flags say whether the bound itself belongs to the band.
type Band struct {
	Code           StatusCode `json:"status"`
	Lower          float64    `json:"lower"`
	LowerInclusive bool       `json:"lower_inclusive"`
	Upper          float64    `json:"upper"`
	UpperInclusive bool       `json:"upper_inclusive"`
	Color          string     `json:"color"`
	Background     string     `json:"background_color"`
}

// Contains reports whether p falls inside the band.
func (b Band) Contains(p float64) bool {
	if p < b.Lower || (p == b.Lower && !b.LowerInclusive) {
		return false
	}
	if p > b.Upper || (p == b.Upper && !b.UpperInclusive) {
		return false
	}
	return true
}

// Range formats the band in interval notation, for example "[3, 15)".
func (b Band) Range() string {
	lo, hi := "(", ")"
	if b.LowerInclusive {
		lo = "["
	}
	if b.UpperInclusive {
		hi = "]"
	}
	return fmt.Sprintf("%s%g, %g%s", lo, b.Lower, b.Upper, hi)
}

const (
	colorAlert     = "#EF4444"
	colorAlertBg   = "#FEE2E2"
	colorCaution   = "#F59E0B"
	colorCautionBg = "#FEF3C7"
	colorNormal    = "#10B981"
	colorNormalBg  = "#D1FAE5"
	bandFloor      = 0.0
	bandCeiling    = 100.0
	veryLowUpper   = 3.0
	lowUpper       = 15.0
	normalUpper    = 85.0
	highUpper      = 97.0
)

var bands = [...]Band{
	{StatusVeryLow, bandFloor, true, veryLowUpper, false, colorAlert, colorAlertBg},
	{StatusLow, veryLowUpper, true, lowUpper, false, colorCaution, colorCautionBg},
	{StatusNormal, lowUpper, true, normalUpper, true, colorNormal, colorNormalBg},
	{StatusHigh, normalUpper, false, highUpper, true, colorCaution, colorCautionBg},
	{StatusVeryHigh, highUpper, false, bandCeiling, true, colorAlert, colorAlertBg},
}

var labels = map[Locale]map[StatusCode]string{
	LocaleEnglish: {
		StatusVeryLow:  "Very Low",
		StatusLow:      "Low",
		StatusNormal:   "Normal",
		StatusHigh:     "High",
		StatusVeryHigh: "Very High",
	},
	LocaleHebrew: {
		StatusVeryLow:  "נמוך מאוד",
		StatusLow:      "נמוך",
		StatusNormal:   "תקין",
		StatusHigh:     "גבוה",
		StatusVeryHigh: "גבוה מאוד",
	},
}

// Bands returns the five status bands in ascending order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands[:])
	return out
}

// GetPercentileStatus classifies a percentile with English labels.
func GetPercentileStatus(percentile float64) Status {
	return GetPercentileStatusLocale(percentile, LocaleEnglish)
}

// GetPercentileStatusLocale classifies a percentile into one of the five
// bands. It is total: values below 0 or above 100 land in the extreme
// bands, and non-finite input is reported as Very Low so that it gets
// flagged for review instead of passing as Normal.
func GetPercentileStatusLocale(percentile float64, locale Locale) Status {
	return statusFor(ClassifyPercentile(percentile), locale)
}

// ClassifyPercentile returns the status code for a percentile.
func ClassifyPercentile(percentile float64) StatusCode {
	switch {
	case math.IsNaN(percentile) || math.IsInf(percentile, 0):
		return StatusVeryLow
	case percentile < veryLowUpper:
		return StatusVeryLow
	case percentile < lowUpper:
		return StatusLow
	case percentile <= normalUpper:
		return StatusNormal
	case percentile <= highUpper:
		return StatusHigh
	default:
		return StatusVeryHigh
	}
}

// Label returns the localized label for a status code.
func Label(code StatusCode, locale Locale) string {
	table, ok := labels[locale]
	if !ok {
		table = labels[LocaleEnglish]
	}
	return table[code]
}

func statusFor(code StatusCode, locale Locale) Status {
	for _, b := range bands {
		if b.Code == code {
			return Status{
				Code:            code,
				Color:           b.Color,
				BackgroundColor: b.Background,
				Label:           Label(code, locale),
			}
		}
	}
	return Status{Code: code, Label: Label(code, locale)}
}
