package assess

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// Summary counts accepted results per band plus rejected records.
// Crossings is the number of trends flagged as percentile crossings.
type Summary struct {
	Total     int `json:"total"`
	VeryLow   int `json:"very_low"`
	Low       int `json:"low"`
	Normal    int `json:"normal"`
	High      int `json:"high"`
	VeryHigh  int `json:"very_high"`
	Rejected  int `json:"rejected"`
	Crossings int `json:"crossings"`
}

// Count returns the number of accepted results in a band.
func (s Summary) Count(code growth.StatusCode) int {
	switch code {
	case growth.StatusVeryLow:
		return s.VeryLow
	case growth.StatusLow:
		return s.Low
	case growth.StatusNormal:
		return s.Normal
	case growth.StatusHigh:
		return s.High
	case growth.StatusVeryHigh:
		return s.VeryHigh
	default:
		return 0
	}
}

// Report is the outcome of one batch run. Precision is the number of
// decimals shown in text and markdown output.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Locale      growth.Locale `json:"locale"`
	Results     []Assessment  `json:"results"`
	Summary     Summary       `json:"summary"`
	Trends      []Trend       `json:"trends"`
	Precision   int           `json:"-"`
}

func summarize(results []Assessment) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if !r.Accepted() {
			s.Rejected++
			continue
		}
		switch r.Status.Code {
		case growth.StatusVeryLow:
			s.VeryLow++
		case growth.StatusLow:
			s.Low++
		case growth.StatusNormal:
			s.Normal++
		case growth.StatusHigh:
			s.High++
		case growth.StatusVeryHigh:
			s.VeryHigh++
		}
	}
	return s
}

func (r *Report) RenderData() any {
	return r
}

func (r *Report) RenderText(w io.Writer, colored bool) error {
	return r.document(colored).RenderText(w, colored)
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	return r.document(false).RenderMarkdown(w)
}

// document lays the report out as tables plus a list of crossings. colored
// only affects the status column of the text rendering.
func (r *Report) document(colored bool) *output.Document {
	doc := &output.Document{
		Title: fmt.Sprintf("Growth Assessment (%d measurements)", r.Summary.Total),
		Parts: []output.Part{
			r.resultsTable(colored),
			r.summaryTable(),
		},
	}
	if len(r.Trends) > 0 {
		doc.Parts = append(doc.Parts, r.trendsTable())
	}
	if crossings := r.crossingsSection(); crossings != nil {
		doc.Parts = append(doc.Parts, crossings)
	}
	return doc
}

func (r *Report) resultsTable(colored bool) *output.Table {
	rows := make([][]string, 0, len(r.Results))
	for _, a := range r.Results {
		if !a.Accepted() {
			rows = append(rows, []string{a.ID, a.ChildID, a.Sex.String(), a.Metric.String(),
				r.num(a.Value), "", "", "rejected: " + a.Error})
			continue
		}
		label := a.Status.Label
		if colored {
			label = output.StatusColor(string(a.Status.Code), label)
		}
		rows = append(rows, []string{
			a.ID,
			a.ChildID,
			a.Sex.String(),
			a.Metric.String(),
			r.num(a.Value) + " " + a.Unit,
			r.num(a.AgeMonths),
			r.num(a.Percentile),
			label,
		})
	}
	return output.NewTable("Measurements",
		[]string{"ID", "Child", "Sex", "Metric", "Value", "Age", "Percentile", "Status"},
		rows, nil, nil)
}

func (r *Report) summaryTable() *output.Table {
	var rows [][]string
	for _, b := range growth.Bands() {
		rows = append(rows, []string{growth.Label(b.Code, r.Locale), strconv.Itoa(r.Summary.Count(b.Code))})
	}
	rows = append(rows, []string{"Rejected", strconv.Itoa(r.Summary.Rejected)})
	return output.NewTable("Summary",
		[]string{"Status", "Count"},
		rows,
		[]string{"Total", strconv.Itoa(r.Summary.Total)},
		nil)
}

func (r *Report) trendsTable() *output.Table {
	rows := make([][]string, 0, len(r.Trends))
	for _, t := range r.Trends {
		crossing := ""
		if t.Crossing {
			crossing = "yes"
		}
		rows = append(rows, []string{
			t.ChildID,
			t.Metric.String(),
			strconv.Itoa(t.Points),
			r.num(t.FirstPercentile) + " -> " + r.num(t.LastPercentile),
			strconv.FormatFloat(t.Slope, 'f', 2, 64),
			strconv.FormatFloat(t.RSquared, 'f', 2, 64),
			crossing,
		})
	}
	return output.NewTable("Trends",
		[]string{"Child", "Metric", "Points", "Percentile", "Slope", "Fit", "Crossing"},
		rows, nil, nil)
}

// crossingsSection spells out each flagged trend, or returns nil when none is.
func (r *Report) crossingsSection() *output.Section {
	var lines []string
	for _, t := range r.Trends {
		if !t.Crossing {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s -> %s (%+.1f points between month %s and %s)",
			t.ChildID, t.Metric, r.num(t.FirstPercentile), r.num(t.LastPercentile),
			t.Change(), r.num(t.FirstAge), r.num(t.LastAge)))
	}
	if len(lines) == 0 {
		return nil
	}
	return &output.Section{Title: "Percentile Crossings", Lines: lines}
}

func (r *Report) num(v float64) string {
	return strconv.FormatFloat(v, 'f', r.Precision, 64)
}
