// Package mcpserver exposes the calculators and their histories as MCP tools
// over stdio.
package mcpserver

import (
	"context"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Tool is one MCP tool backed by the orchestrator.
type Tool interface {
	GetTool() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Server wraps the MCP server and its registered tools.
type Server struct {
	mcpServer *server.MCPServer
	tools     []Tool
	logger    *zap.Logger
}

// New creates the MCP server and registers every calculator tool.
func New(calc *calculator.Orchestrator, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(constants.AppName, version, server.WithToolCapabilities(true)),
		logger:    logger,
		tools: []Tool{
			NewKindsTool(),
			NewCalculateTool(calc),
			NewHistoryTool(calc),
			NewToggleFavoriteTool(calc),
			NewClearHistoryTool(calc),
			NewExportHistoryTool(calc),
		},
	}

	for _, tool := range s.tools {
		s.mcpServer.AddTool(tool.GetTool(), tool.Handle)
	}
	return s
}

// Tools returns the registered tools.
func (s *Server) Tools() []Tool {
	return s.tools
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves requests on stdin and stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP tools on stdio",
		zap.String("op", "mcpserver.ServeStdio"),
		zap.Int("tools", len(s.tools)),
	)
	return server.ServeStdio(s.mcpServer)
}
