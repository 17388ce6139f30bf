package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate configuration file",
				Description: `Validates the configuration file for syntax errors and invalid values.

Examples:
  growth config validate                   # Validates growth.toml in the current directory
  growth -c growth.yaml config validate    # Validates a specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show effective configuration",
				Description: `Shows the effective configuration after merging defaults with the config file.

Examples:
  growth config show                   # Show effective config
  growth -c growth.toml config show    # Show config from a specific file`,
				Action: runConfigShow,
			},
		},
	}
}

func loadOptions(c *cli.Context) []config.LoadOption {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return opts
}

func runConfigValidate(c *cli.Context) error {
	w := c.App.Writer
	notices := output.NewWriterFormatter(output.FormatText, w, !color.NoColor)

	result, err := config.LoadConfig(loadOptions(c)...)
	if err != nil {
		color.New(color.FgRed).Fprintln(w, "Configuration validation failed:")
		fmt.Fprintf(w, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		notices.Success("Configuration valid: %s", result.Source)
	} else {
		notices.Warning("No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	w := c.App.Writer

	result, err := config.LoadConfig(loadOptions(c)...)
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Fprintf(w, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(w, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprint(w, string(content))
	return err
}
