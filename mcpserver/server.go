// Package mcpserver exposes the ticket use cases as Model Context Protocol
// tools. Each tool maps one call onto one tracker.Service operation; domain
// errors come back as tool results flagged isError, never as protocol errors.
package mcpserver

import (
	"io"
	"log/slog"

	"github.com/amonks/tix/tracker"
	"github.com/mark3labs/mcp-go/server"
)

// Name is the server name reported to MCP clients.
const Name = "tix"

// Options configures a Server.
type Options struct {
	// Version is reported to clients during initialization.
	Version string

	// Logger receives a record per tool call and transport errors. If nil,
	// nothing is logged.
	Logger *slog.Logger
}

// Server serves the ticket tools.
type Server struct {
	svc    *tracker.Service
	logger *slog.Logger
	mcp    *server.MCPServer
}

// New builds a Server with every ticket tool registered.
func New(svc *tracker.Service, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		svc:    svc,
		logger: logger,
		mcp: server.NewMCPServer(
			Name,
			opts.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
	}
	for _, t := range s.tools() {
		s.mcp.AddTool(t.def, s.logged(t.def.Name, t.handle))
	}
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	errorLog := slog.NewLogLogger(s.logger.Handler(), slog.LevelError)
	return server.ServeStdio(s.mcp, server.WithErrorLogger(errorLog))
}

const instructions = `tix tracks work items ("tickets") for this project.
Tickets move pending -> in_progress -> completed -> archived; pending and
in_progress tickets may also be completed or archived directly. Nothing moves
back to pending, and archived is final.
Ticket IDs may be abbreviated to any unique prefix.`
