package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/internal/assess"
	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// Common input structures for tools

// FormatInput selects the response encoding.
type FormatInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Locale string `json:"locale,omitempty" jsonschema:"Label language: en (default) or he."`
}

// PercentileInput describes one measurement.
type PercentileInput struct {
	FormatInput
	Sex        string   `json:"sex" jsonschema:"Child sex: male or female (m/f, boy/girl accepted)."`
	Metric     string   `json:"metric" jsonschema:"Measurement kind: weight (kg), length (cm), or head_circumference (cm)."`
	Value      float64  `json:"value" jsonschema:"Measured value in kg for weight, cm otherwise."`
	AgeMonths  *float64 `json:"age_months,omitempty" jsonschema:"Age in months, clamped to 0-24. Required unless birth_date is given."`
	BirthDate  string   `json:"birth_date,omitempty" jsonschema:"Birth date YYYY-MM-DD, used when age_months is omitted."`
	MeasuredOn string   `json:"measured_on,omitempty" jsonschema:"Measurement date YYYY-MM-DD. Defaults to today."`
}

// StatusInput classifies a known percentile.
type StatusInput struct {
	FormatInput
	Percentile float64 `json:"percentile" jsonschema:"Percentile, normally 0-100. Values outside the range fall in the extreme bands."`
}

// ReferenceInput selects reference rows.
type ReferenceInput struct {
	FormatInput
	Sex       string `json:"sex" jsonschema:"Child sex: male or female."`
	Metric    string `json:"metric" jsonschema:"weight, length, or head_circumference."`
	AgeMonths *int   `json:"age_months,omitempty" jsonschema:"Single age in whole months (0-24). All ages when omitted."`
}

// AssessInput is an inline measurement batch.
type AssessInput struct {
	FormatInput
	Measurements []assess.Measurement `json:"measurements" jsonschema:"Measurements to assess. Each needs sex, metric, value and age_months or birth_date."`
}

// ReferenceResult is the growth_reference payload.
type ReferenceResult struct {
	Sex    growth.Sex            `json:"sex"`
	Metric growth.Metric         `json:"metric"`
	Unit   string                `json:"unit"`
	Rows   []growth.ReferenceRow `json:"rows"`
}

// Helper functions

func getFormat(input FormatInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func (s *Server) getLocale(input FormatInput) growth.Locale {
	if input.Locale != "" {
		return growth.ParseLocale(input.Locale)
	}
	return growth.ParseLocale(s.config.Output.Locale)
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := output.MarshalTOON(data)
		if err != nil {
			return "", err
		}
		return "```\n" + out + "\n```", nil
	default:
		return output.MarshalTOON(data)
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func (s *Server) handleCalculatePercentile(ctx context.Context, req *mcp.CallToolRequest, input PercentileInput) (*mcp.CallToolResult, any, error) {
	m := assess.Measurement{
		Sex:        input.Sex,
		Metric:     input.Metric,
		Value:      input.Value,
		AgeMonths:  input.AgeMonths,
		BirthDate:  input.BirthDate,
		MeasuredOn: input.MeasuredOn,
	}
	result, err := assess.Evaluate(m, s.getLocale(input.FormatInput), s.now())
	if err != nil {
		return toolError(err.Error())
	}
	s.logger.Debug("Percentile calculated",
		zap.String("metric", result.Metric.String()),
		zap.Float64("percentile", result.Percentile))

	return toolResult(result, getFormat(input.FormatInput))
}

func (s *Server) handlePercentileStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, any, error) {
	status := growth.GetPercentileStatusLocale(input.Percentile, s.getLocale(input.FormatInput))
	return toolResult(status, getFormat(input.FormatInput))
}

func (s *Server) handleGrowthReference(ctx context.Context, req *mcp.CallToolRequest, input ReferenceInput) (*mcp.CallToolResult, any, error) {
	sex, err := growth.ParseSex(input.Sex)
	if err != nil {
		return toolError(err.Error())
	}
	metric, err := growth.ParseMetric(input.Metric)
	if err != nil {
		return toolError(err.Error())
	}

	rows := growth.Reference(sex, metric)
	if input.AgeMonths != nil {
		age := *input.AgeMonths
		if age < growth.MinAgeMonths || age > growth.MaxAgeMonths {
			return toolError(fmt.Sprintf("age_months %d outside %d-%d", age, growth.MinAgeMonths, growth.MaxAgeMonths))
		}
		rows = rows[age : age+1]
	}

	return toolResult(ReferenceResult{
		Sex:    sex,
		Metric: metric,
		Unit:   metric.Unit(),
		Rows:   rows,
	}, getFormat(input.FormatInput))
}

func (s *Server) handleAssessMeasurements(ctx context.Context, req *mcp.CallToolRequest, input AssessInput) (*mcp.CallToolResult, any, error) {
	svc := assess.New(
		assess.WithConfig(s.config),
		assess.WithLogger(s.logger),
		assess.WithClock(s.now),
	)
	report, err := svc.Assess(ctx, input.Measurements, assess.Options{Locale: s.getLocale(input.FormatInput)})
	if report == nil {
		if errors.Is(err, assess.ErrNoMeasurements) {
			return toolError("no measurements provided")
		}
		return toolError(err.Error())
	}
	// Rejected records are part of the report, not a tool failure.
	return toolResult(report, getFormat(input.FormatInput))
}
