// Package mcp exposes the catalogue query service as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/mcplog"
)

// ServerName is reported to MCP clients.
const ServerName = "uicontext"

// Version is overridden at link time.
var Version = "0.1.0-dev"

// Server implements the MCP server, exposing catalogue query tools.
type Server struct {
	mcpServer  *server.MCPServer
	query      *catalog.QueryService
	logger     *mcplog.Logger // nil disables call logging
	handlers   map[string]server.ToolHandlerFunc
	schemas    map[string]*jsonschema.Resolved
	middleware []server.ToolHandlerMiddleware
}

// NewServer creates a new MCP server backed by qs. logger may be nil.
func NewServer(qs *catalog.QueryService, logger *mcplog.Logger) *Server {
	s := &Server{
		query:    qs,
		logger:   logger,
		handlers: make(map[string]server.ToolHandlerFunc),
		schemas:  make(map[string]*jsonschema.Resolved),
	}

	tools := s.tools()
	for _, t := range tools {
		s.handlers[t.Tool.Name] = t.Handler
		s.schemas[t.Tool.Name] = mustResolveSchema(t.Tool)
	}

	// Logging wraps validation so rejected calls are recorded too.
	if logger != nil {
		s.middleware = append(s.middleware, s.loggingMiddleware())
	}
	s.middleware = append(s.middleware, s.validationMiddleware())

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	for _, mw := range s.middleware {
		opts = append(opts, server.WithToolHandlerMiddleware(mw))
	}
	s.mcpServer = server.NewMCPServer(ServerName, Version, opts...)
	s.mcpServer.AddTools(tools...)
	return s
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: searchTool(), Handler: s.handleSearch},
		{Tool: getRelatedTool(), Handler: s.handleGetRelated},
		{Tool: getDetailTool(), Handler: s.handleGetDetail},
		{Tool: getComponentDetailsTool(), Handler: s.handleGetComponentDetails},
		{Tool: getComponentPropsTool(), Handler: s.handleGetComponentProps},
		{Tool: getExamplesTool(), Handler: s.handleGetExamples},
		{Tool: getHookDetailsTool(), Handler: s.handleGetHookDetails},
		{Tool: getHelperDetailsTool(), Handler: s.handleGetHelperDetails},
		{Tool: searchHooksTool(), Handler: s.handleSearchHooks},
		{Tool: searchHelpersTool(), Handler: s.handleSearchHelpers},
		{Tool: searchByUseCaseTool(), Handler: s.handleSearchByUseCase},
	}
}

// ToolNames lists the registered tools in registration order.
func (s *Server) ToolNames() []string {
	var names []string
	for _, t := range s.tools() {
		names = append(names, t.Tool.Name)
	}
	return names
}

// MCPServer returns the underlying mcp-go server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// HandleToolCall runs a tool through the same middleware chain as the stdio
// transport.
func (s *Server) HandleToolCall(ctx context.Context, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
	for i := len(s.middleware) - 1; i >= 0; i-- {
		h = s.middleware[i](h)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}
	return h(ctx, req)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
