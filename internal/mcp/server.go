// ABOUTME: MCP server exposing a derived student roster over stdio.
// ABOUTME: Wraps the MCP SDK server with the report and optional snapshot archive.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/report"
	"github.com/harperreed/roster/internal/storage"
)

// Server wraps the MCP server with roster access.
type Server struct {
	mcpServer *mcp.Server
	report    *report.Report
	repo      storage.Repository
	logger    *zap.Logger
}

// NewServer creates a new MCP server for rep. repo may be nil, in which case
// snapshot tools are not registered.
func NewServer(rep *report.Report, repo storage.Repository, logger *zap.Logger) (*Server, error) {
	if rep == nil {
		return nil, errors.New("report is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "roster",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		report:    rep,
		repo:      repo,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting",
		zap.String("profile", s.report.Profile.Name),
		zap.Int("rows", s.report.Table.Len()))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
