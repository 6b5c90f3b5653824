// Package mcp provides the Model Context Protocol (MCP) server for rulesmcp using mcp-go.
//
// The server exposes the categorized rules of a single markdown document to
// AI assistants as two read-only tools:
//
//   - get_rules: every rule, or only those of one category (case-insensitive)
//   - get_categories: the distinct categories in document order
//
// # Request Flow
//
// Each tool call runs the same linear pipeline and shares nothing with other
// calls:
//
//  1. Fetch the document through the configured source.Source
//  2. Parse it with rules.Parse
//  3. Filter or list with the rules query helpers
//  4. Serialize the result as an indented JSON array
//
// The document is re-read on every call. A fetch failure aborts only the
// current call and is reported as a JSON-RPC internal error carrying the
// source's message. An unknown tool name is reported as method not found.
//
// # Implementation
//
// The package uses the mcp-go library (github.com/mark3labs/mcp-go) and talks
// JSON-RPC 2.0 over stdin/stdout. Logging goes to stderr or the debug log
// file, never to stdout.
//
// # Usage
//
// The server is normally started as a subprocess by an MCP client:
//
//	RULES_FILE_PATH=https://github.com/org/repo/blob/main/RULES.md rulesmcp serve
//
// It reads requests until stdin closes or the process receives SIGINT or
// SIGTERM.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
