package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/internal/assess"
	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

func measurementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "sex",
			Aliases:  []string{"s"},
			Usage:    "Child sex: male or female",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "metric",
			Aliases:  []string{"m"},
			Usage:    "weight, length, or head_circumference",
			Required: true,
		},
	}
}

func percentileCmd() *cli.Command {
	return &cli.Command{
		Name:    "percentile",
		Aliases: []string{"p"},
		Usage:   "Calculate the WHO percentile and status of one measurement",
		Flags: append(measurementFlags(),
			&cli.Float64Flag{
				Name:     "value",
				Usage:    "Measured value (kg for weight, cm otherwise)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:    "age",
				Aliases: []string{"a"},
				Usage:   "Age in months, clamped to 0-24",
			},
			&cli.StringFlag{
				Name:  "birth-date",
				Usage: "Birth date (YYYY-MM-DD), used when --age is not given",
			},
			&cli.StringFlag{
				Name:  "measured-on",
				Usage: "Measurement date (YYYY-MM-DD), defaults to today",
			},
		),
		Action: runPercentileCmd,
	}
}

func runPercentileCmd(c *cli.Context) error {
	m := assess.Measurement{
		Sex:        c.String("sex"),
		Metric:     c.String("metric"),
		Value:      c.Float64("value"),
		BirthDate:  c.String("birth-date"),
		MeasuredOn: c.String("measured-on"),
	}
	if c.IsSet("age") {
		age := c.Float64("age")
		m.AgeMonths = &age
	}

	result, err := assess.Evaluate(m, resolveLocale(c), time.Now())
	if err != nil {
		return err
	}
	appLogger(c).Debug("Percentile calculated",
		zap.String("metric", result.Metric.String()),
		zap.Int("age_used", result.AgeUsed),
		zap.Float64("percentile", result.Percentile))

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Sex", result.Sex.String()},
		{"Metric", result.Metric.String()},
		{"Value", fmt.Sprintf("%g %s", result.Value, result.Unit)},
		{"Age (months)", fmt.Sprintf("%.2f (row %d)", result.AgeMonths, result.AgeUsed)},
		{"Percentile", fmtNum(c, result.Percentile)},
		{"Status", colorStatus(*result.Status, formatter.Colored())},
		{"P3 / P50 / P97", fmt.Sprintf("%g / %g / %g", result.Anchors.P3, result.Anchors.P50, result.Anchors.P97)},
	}
	return formatter.Output(output.NewTable("Growth Percentile", []string{"Field", "Value"}, rows, nil, result))
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Classify a percentile into a growth status band",
		ArgsUsage: "<percentile>",
		Action:    runStatusCmd,
	}
}

func runStatusCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one percentile argument")
	}
	p, err := strconv.ParseFloat(c.Args().First(), 64)
	if err != nil {
		return fmt.Errorf("invalid percentile %q: %w", c.Args().First(), err)
	}

	status := growth.GetPercentileStatusLocale(p, resolveLocale(c))

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{{
		fmtNum(c, p),
		colorStatus(status, formatter.Colored()),
		string(status.Code),
		status.Color,
		status.BackgroundColor,
	}}
	return formatter.Output(output.NewTable("Percentile Status",
		[]string{"Percentile", "Label", "Status", "Color", "Background"}, rows, nil, status))
}

// bandView is a band with its localized label.
type bandView struct {
	Status     growth.StatusCode `json:"status"`
	Label      string            `json:"label"`
	Range      string            `json:"range"`
	Color      string            `json:"color"`
	Background string            `json:"background_color"`
}

func bandsCmd() *cli.Command {
	return &cli.Command{
		Name:   "bands",
		Usage:  "List the status bands and their percentile ranges",
		Action: runBandsCmd,
	}
}

func runBandsCmd(c *cli.Context) error {
	locale := resolveLocale(c)

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	var data []bandView
	for _, b := range growth.Bands() {
		view := bandView{
			Status:     b.Code,
			Label:      growth.Label(b.Code, locale),
			Range:      b.Range(),
			Color:      b.Color,
			Background: b.Background,
		}
		data = append(data, view)
		label := view.Label
		if formatter.Colored() {
			label = output.StatusColor(string(b.Code), label)
		}
		rows = append(rows, []string{string(b.Code), label, view.Range, b.Color})
	}
	return formatter.Output(output.NewTable("Status Bands",
		[]string{"Status", "Label", "Range", "Color"}, rows, nil, data))
}
