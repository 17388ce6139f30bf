package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/elharel648/CalmParentApp-sub000/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the growth
calculator as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "growth": {
        "command": "growth",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - calculate_percentile   Percentile and status of one measurement
  - percentile_status      Status band for a known percentile
  - growth_reference       WHO anchor values by age
  - assess_measurements    Batch assessment with trends and crossings`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry server manifest",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(appConfig(c)),
		mcpserver.WithLogger(appLogger(c)),
	)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	manifest, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(manifest))
	return err
}
