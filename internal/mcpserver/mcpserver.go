package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
)

// Server wraps the MCP server and registers the growth tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration used for locale and batch settings.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithLogger sets the logger. Stdout carries the protocol, so the logger
// must write elsewhere.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock sets the time source for ages derived from birth dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a new MCP server with all growth tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "growth",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all growth tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "calculate_percentile",
		Description: describePercentile(),
	}, s.handleCalculatePercentile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "percentile_status",
		Description: describeStatus(),
	}, s.handlePercentileStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "growth_reference",
		Description: describeReference(),
	}, s.handleGrowthReference)

	// Batch assessment with trends
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assess_measurements",
		Description: describeAssess(),
	}, s.handleAssessMeasurements)
}
