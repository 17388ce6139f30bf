package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describePercentile() string {
	return `Estimates where a child's measurement falls among children of the same sex and age, using the WHO 2006 Child Growth Standards for 0-24 months.

USE WHEN:
- A parent records a weight, length, or head circumference and asks what it means
- Checking a single measurement before deciding whether to look at history
- Converting a raw value (kg or cm) into a percentile and status band

INTERPRETING RESULTS:
- Percentile 50 is the median child; 15-85 is the normal range
- Below 3 or above 97 is outside the reference range and worth discussing with a clinician
- Ages are rounded to the nearest whole month and limited to 0-24 months
- Values beyond the 3rd and 97th anchors are linear projections, capped to 0-100, and less precise
- has_data false means the value was rejected (zero, negative, or not a number); percentile 0 is then not a real result
- A single percentile is a snapshot; crossing bands over time matters more than one reading

METRICS RETURNED:
- percentile (0-100), status code, label, color tokens
- age_used (whole month row), unit, and the five anchors (p3, p15, p50, p85, p97) for that row`
}

func describeStatus() string {
	return `Classifies a percentile into one of five growth status bands with display colors.

USE WHEN:
- A percentile is already known and only the band is needed
- Rendering a badge or color for a stored percentile
- Explaining which range a percentile belongs to

INTERPRETING RESULTS:
- very_low: below 3
- low: 3 up to but not including 15
- normal: 15 through 85 inclusive
- high: above 85 through 97 inclusive
- very_high: above 97
- Alert bands (very_low, very_high) use red tokens, caution bands (low, high) amber, normal green

METRICS RETURNED:
- status code, localized label (en or he), color and background_color hex tokens`
}

func describeReference() string {
	return `Returns the WHO percentile anchors (3rd, 15th, 50th, 85th, 97th) for a sex and metric, for one age or for every month from 0 to 24.

USE WHEN:
- Showing what a typical value is at a given age
- Explaining how far a measurement is from the median
- Drawing or describing reference curves

INTERPRETING RESULTS:
- p50 is the median child; p15 and p85 bound the normal band
- Weight is in kg; length and head circumference are in cm
- Rows are whole months; there is no interpolation between ages

METRICS RETURNED:
- Per age: age_months, p3, p15, p50, p85, p97
- sex, metric, unit`
}

func describeAssess() string {
	return `Assesses a batch of measurements at once, summarizes them by status band, and fits percentile trends per child and metric.

USE WHEN:
- Reviewing a child's measurement history
- Looking for percentile crossings (a child drifting across bands)
- Checking many records imported from a spreadsheet or app export

INTERPRETING RESULTS:
- Each record needs sex, metric, value and either age_months or birth_date (with optional measured_on)
- Invalid records are listed with an error and counted as rejected; the rest are still assessed
- Trends need at least the configured number of points (default 3) for one child and metric
- slope is percentile points per month; negative means the child is falling behind the curve
- r_squared near 1 means a steady drift; near 0 means noisy readings
- crossing true means the percentile moved by at least the threshold (default 25 points) between the first and last reading

METRICS RETURNED:
- results: one entry per record in input order with percentile and status or an error
- summary: counts per band, rejected, crossings
- trends: child_id, metric, points, first and last percentile, slope, r_squared, crossing`
}
