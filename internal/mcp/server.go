package mcp

import (
	"context"
	"fmt"

	"rulesmcp/internal/config"
	"rulesmcp/internal/logging"
	"rulesmcp/internal/source"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "rulesmcp"

// Version is set at build time via ldflags.
var Version = "0.1.0"

// Tool names exposed to clients.
const (
	ToolGetRules      = "get_rules"
	ToolGetCategories = "get_categories"
)

// Server represents an MCP server instance using mcp-go
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	source    source.Source
	mcpServer *server.MCPServer
}

// NewServer creates a server that answers tool calls from src. The tools are
// registered immediately; nothing is read until the first call.
func NewServer(cfg *config.Config, logger *logging.AppLogger, src source.Source) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
		source: src,
	}

	hooks := &server.Hooks{}
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		s.logger.Error("MCP request failed", "method", method, "id", id, "error", err)
	})

	s.mcpServer = server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	for _, tool := range toolDefinitions() {
		s.mcpServer.AddTool(tool, s.handleToolCall)
	}

	return s
}

// toolDefinitions describes the tools and their input schemas.
func toolDefinitions() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolGetRules,
			mcp.WithDescription("Get all rules or filter by category"),
			mcp.WithString("category",
				mcp.Description("Optional category to filter rules"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		mcp.NewTool(ToolGetCategories,
			mcp.WithDescription("Get list of all rule categories"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start serves MCP over stdin/stdout until stdin closes or the process is
// interrupted.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP server",
		"name", serverName,
		"version", Version,
		"origin", s.source.Origin(),
	)

	if err := server.ServeStdio(s.mcpServer, server.WithErrorLogger(s.logger.StandardLog())); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping MCP server")
	// ServeStdio returns once its context is cancelled; nothing else to release.
	return nil
}
