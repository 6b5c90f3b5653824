package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rulesmcp/internal/rules"

	"github.com/mark3labs/mcp-go/mcp"
)

// DispatchError is a tool call failure with a JSON-RPC error code.
type DispatchError struct {
	Code    int
	Message string
}

func (e *DispatchError) Error() string {
	return e.Message
}

// handleToolCall adapts Call to mcp-go. Any error is reported to the client
// by mcp-go as an internal error with err.Error() as the message.
func (s *Server) handleToolCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.Call(ctx, request.Params.Name, request.GetArguments())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

// Call runs one tool invocation and returns its JSON text. Unknown names
// fail with a METHOD_NOT_FOUND DispatchError before anything is fetched.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	logger := s.logger.With("tool", name)

	switch name {
	case ToolGetRules:
		category, err := categoryArgument(args)
		if err != nil {
			return "", err
		}

		all, err := s.loadRules(ctx)
		if err != nil {
			return "", err
		}

		filtered := rules.FilterByCategory(all, category)
		logger.Debug("Rules selected", "category", category, "total", len(all), "returned", len(filtered))
		return marshalResult(filtered)

	case ToolGetCategories:
		all, err := s.loadRules(ctx)
		if err != nil {
			return "", err
		}

		categories := rules.ListCategories(all)
		logger.Debug("Categories listed", "count", len(categories))
		return marshalResult(categories)

	default:
		logger.Warn("Unknown tool requested")
		return "", &DispatchError{
			Code:    mcp.METHOD_NOT_FOUND,
			Message: fmt.Sprintf("Unknown tool: %s", name),
		}
	}
}

// loadRules fetches and parses the document. Nothing is kept afterwards.
func (s *Server) loadRules(ctx context.Context) ([]rules.Rule, error) {
	defer s.logger.LogPerformance("load_rules", time.Now())

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch rules", "origin", s.source.Origin(), "error", err)
		return nil, err
	}

	parsed := rules.Parse(raw)
	s.logger.Debug("Parsed rules", "bytes", len(raw), "rules", len(parsed))
	return parsed, nil
}

// categoryArgument extracts the optional category filter. A missing, null or
// empty value means no filter.
func categoryArgument(args map[string]any) (string, error) {
	v, ok := args["category"]
	if !ok || v == nil {
		return "", nil
	}
	category, ok := v.(string)
	if !ok {
		return "", &DispatchError{
			Code:    mcp.INVALID_PARAMS,
			Message: fmt.Sprintf("category must be a string, got %T", v),
		}
	}
	return category, nil
}

// marshalResult renders v as JSON indented by two spaces, leaving characters
// such as '<' and '&' unescaped.
func marshalResult(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
