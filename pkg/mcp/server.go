package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
)

// Server wraps the MCP server with the fixture's command surface
type Server struct {
	mcpServer  *server.MCPServer
	dispatcher *command.Dispatcher
	events     db.EventStore
}

// NewServer creates a new MCP server for device control. events may be nil
// when no command history is kept.
func NewServer(dispatcher *command.Dispatcher, events db.EventStore) *Server {
	s := &Server{
		dispatcher: dispatcher,
		events:     events,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"tled",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
