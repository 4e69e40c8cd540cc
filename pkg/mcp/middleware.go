package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uicontext/pkg/mcplog"
)

// loggingMiddleware returns a ToolHandlerMiddleware that records every tool
// call as a JSONL entry via the server's logger. If the logger is nil this
// method must not be called (guarded by NewServer).
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start).Milliseconds()

			rb := mcplog.ResponseBytes(result)
			var errStr *string
			if err != nil {
				msg := err.Error()
				errStr = &msg
			}

			entry := mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: rb,
				TokensEst:     rb / 4,
				Miss:          result != nil && result.IsError,
				Error:         errStr,
			}
			_ = s.logger.Write(entry)

			return result, err
		}
	}
}

// validationMiddleware checks call arguments against the tool's input
// schema. Invalid calls get an error result and never reach the handler.
func (s *Server) validationMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			schema, ok := s.schemas[req.Params.Name]
			if !ok {
				return next(ctx, req)
			}
			if err := validateArguments(schema, req.GetArguments()); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments for %s: %v", req.Params.Name, err)), nil
			}
			return next(ctx, req)
		}
	}
}

// validateArguments normalizes args through JSON, so numbers are float64 as
// they would be off the wire, and validates them.
func validateArguments(schema *jsonschema.Resolved, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return err
	}
	return schema.Validate(instance)
}

// mustResolveSchema compiles a tool's input schema. Tool schemas are static,
// so a failure is a programming error.
func mustResolveSchema(tool mcp.Tool) *jsonschema.Resolved {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		panic(fmt.Sprintf("mcp: marshal %s schema: %v", tool.Name, err))
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("mcp: parse %s schema: %v", tool.Name, err))
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("mcp: resolve %s schema: %v", tool.Name, err))
	}
	return resolved
}
