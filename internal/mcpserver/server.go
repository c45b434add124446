// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apivet's validation engine as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/apivet/apivet"
)

const serverInstructions = `apivet MCP server — validates OpenAPI 3.1.x documents and reports JSON Pointer addressed diagnostics.

Configuration: All defaults are configurable via APIVET_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- APIVET_CACHE_FILE_TTL (default: 15m) — cache TTL for local file documents
- APIVET_CACHE_ENABLED (default: true) — disable document caching entirely
- APIVET_VALIDATE_STRICT (default: false) — enable strict validation by default
- APIVET_VALIDATE_NO_WARNINGS (default: false) — suppress warnings by default
- APIVET_RESULT_LIMIT (default: 100) — default page size for diagnostics
- APIVET_MAX_INLINE_SIZE (default: 10MiB) — size cap for inline content

Caching: Loaded documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "apivet", Version: apivet.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OpenAPI 3.1.x document against the construct grammar. Returns errors and warnings with JSON Pointer locations, line/column positions, and OAS specification links. For large documents, use no_warnings to focus on errors first. Use offset/limit to paginate through results. Strict mode and warning suppression defaults are configurable via APIVET_VALIDATE_STRICT and APIVET_VALIDATE_NO_WARNINGS env vars.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
