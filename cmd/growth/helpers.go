package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// appConfig returns the configuration loaded in Before, or defaults when a
// command runs without it.
func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func appLogger(c *cli.Context) *zap.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// resolveFormat prefers --format over the configured default.
func resolveFormat(c *cli.Context) output.Format {
	if c.IsSet("format") {
		return output.ParseFormat(c.String("format"))
	}
	return output.ParseFormat(appConfig(c).Output.Format)
}

// resolveLocale prefers --locale over the configured default.
func resolveLocale(c *cli.Context) growth.Locale {
	if c.IsSet("locale") {
		return growth.ParseLocale(c.String("locale"))
	}
	return growth.ParseLocale(appConfig(c).Output.Locale)
}

// newFormatter writes to --output when given and to the app writer otherwise.
func newFormatter(c *cli.Context) (*output.Formatter, error) {
	if path := c.String("output"); path != "" {
		return output.NewFormatter(resolveFormat(c), path, false)
	}
	return output.NewWriterFormatter(resolveFormat(c), c.App.Writer, !color.NoColor), nil
}

// fmtNum formats a percentile or measurement with the configured precision.
func fmtNum(c *cli.Context, v float64) string {
	return strconv.FormatFloat(v, 'f', appConfig(c).Output.Precision, 64)
}

func colorStatus(s growth.Status, colored bool) string {
	if !colored {
		return s.Label
	}
	return output.StatusColor(string(s.Code), s.Label)
}

func parseSexMetric(c *cli.Context) (growth.Sex, growth.Metric, error) {
	sex, err := growth.ParseSex(c.String("sex"))
	if err != nil {
		return "", "", fmt.Errorf("--sex: %w", err)
	}
	metric, err := growth.ParseMetric(c.String("metric"))
	if err != nil {
		return "", "", fmt.Errorf("--metric: %w", err)
	}
	return sex, metric, nil
}
