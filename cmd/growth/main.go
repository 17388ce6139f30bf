package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
)

// version is set via ldflags at build time.
var version = "dev"

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "growth",
		Usage:    "Child growth percentiles and status for 0-24 months",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `growth places weight, length, and head circumference measurements on the
WHO 2006 Child Growth Standards, classifies them into five status bands,
and assesses measurement histories for percentile crossings.

Metrics: weight (kg), length (cm), head_circumference (cm)`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"GROWTH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Status label language: en or he (default from config)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			zapConfig := zap.NewProductionConfig()
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if c.Bool("verbose") {
				zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.App.Metadata[metaLogger] = logger

			if c.Bool("no-color") {
				color.NoColor = true
			}
			// The config command loads and reports on the file itself.
			if c.Args().First() == "config" {
				return nil
			}

			result, err := config.LoadConfig(loadOptions(c)...)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			c.App.Metadata[metaConfig] = result.Config

			if !result.Config.Output.Color {
				color.NoColor = true
			}
			logger.Debug("Configuration loaded", zap.String("source", result.Source))
			return nil
		},
		After: func(c *cli.Context) error {
			if logger, ok := c.App.Metadata[metaLogger].(*zap.Logger); ok {
				// Syncing stderr fails on some platforms; nothing to report.
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			percentileCmd(),
			statusCmd(),
			bandsCmd(),
			referenceCmd(),
			curveCmd(),
			assessCmd(),
			mcpCmd(),
			configCmd(),
		},
	}
}
