package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// referenceData is the serialized form of the reference command.
type referenceData struct {
	Sex    growth.Sex            `json:"sex"`
	Metric growth.Metric         `json:"metric"`
	Unit   string                `json:"unit"`
	Rows   []growth.ReferenceRow `json:"rows"`
}

func referenceCmd() *cli.Command {
	return &cli.Command{
		Name:    "reference",
		Aliases: []string{"ref"},
		Usage:   "Show the WHO anchor values (P3, P15, P50, P85, P97)",
		Flags: append(measurementFlags(),
			&cli.IntFlag{
				Name:    "age",
				Aliases: []string{"a"},
				Usage:   "Show a single whole-month age (0-24)",
			},
		),
		Action: runReferenceCmd,
	}
}

func runReferenceCmd(c *cli.Context) error {
	sex, metric, err := parseSexMetric(c)
	if err != nil {
		return err
	}

	rows := growth.Reference(sex, metric)
	if c.IsSet("age") {
		age := c.Int("age")
		if age < growth.MinAgeMonths || age > growth.MaxAgeMonths {
			return fmt.Errorf("--age must be between %d and %d (got %d)", growth.MinAgeMonths, growth.MaxAgeMonths, age)
		}
		rows = rows[age : age+1]
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			strconv.Itoa(r.AgeMonths),
			strconv.FormatFloat(r.P3, 'f', 1, 64),
			strconv.FormatFloat(r.P15, 'f', 1, 64),
			strconv.FormatFloat(r.P50, 'f', 1, 64),
			strconv.FormatFloat(r.P85, 'f', 1, 64),
			strconv.FormatFloat(r.P97, 'f', 1, 64),
		})
	}

	title := fmt.Sprintf("WHO %s-for-age, %s (%s)", metric, sex, metric.Unit())
	return formatter.Output(output.NewTable(title,
		[]string{"Age", "P3", "P15", "P50", "P85", "P97"}, table, nil,
		referenceData{Sex: sex, Metric: metric, Unit: metric.Unit(), Rows: rows}))
}

// curvePoint is one point on a percentile curve.
type curvePoint struct {
	AgeMonths int     `json:"age_months"`
	Value     float64 `json:"value"`
}

func curveCmd() *cli.Command {
	return &cli.Command{
		Name:  "curve",
		Usage: "Trace the measurement at a fixed percentile from birth to 24 months",
		Flags: append(measurementFlags(),
			&cli.Float64Flag{
				Name:     "percentile",
				Aliases:  []string{"p"},
				Usage:    "Percentile to trace (0-100)",
				Required: true,
			},
		),
		Action: runCurveCmd,
	}
}

func runCurveCmd(c *cli.Context) error {
	sex, metric, err := parseSexMetric(c)
	if err != nil {
		return err
	}
	p := c.Float64("percentile")
	if math.IsNaN(p) || p < 0 || p > 100 {
		return fmt.Errorf("--percentile must be between 0 and 100 (got %v)", p)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	var points []curvePoint
	for _, age := range growth.Ages() {
		v := math.Round(growth.ValueAtPercentile(p, float64(age), metric, sex)*100) / 100
		points = append(points, curvePoint{AgeMonths: age, Value: v})
		rows = append(rows, []string{strconv.Itoa(age), strconv.FormatFloat(v, 'f', 2, 64)})
	}

	title := fmt.Sprintf("P%g %s-for-age, %s", p, metric, sex)
	return formatter.Output(output.NewTable(title,
		[]string{"Age", "Value (" + metric.Unit() + ")"}, rows, nil, points))
}
