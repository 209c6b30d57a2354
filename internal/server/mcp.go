// ABOUTME: MCP server construction and tool registration
// ABOUTME: Exposes the greet tool over the streamable HTTP transport

package server

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// greetArgs is the input schema for the greet tool.
type greetArgs struct {
	Name string `json:"name,omitempty" jsonschema:"the name to greet"`
}

// newMCPServer builds the MCP server with keygate's tool set.
func newMCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "keygate",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "greet",
		Description: "Say hello to the provided name",
	}, handleGreet)

	return srv
}

// handleGreet answers the greet tool call. An empty name falls back to a
// generic greeting.
func handleGreet(ctx context.Context, req *mcp.CallToolRequest, args greetArgs) (*mcp.CallToolResult, any, error) {
	name := args.Name
	if name == "" {
		name = "there"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Hello, " + name + "!"},
		},
	}, nil, nil
}

// newMCPHandler wraps the MCP server in the streamable HTTP transport.
// The same server instance backs every request; sessions are managed by
// the transport.
func newMCPHandler(version string) http.Handler {
	mcpSrv := newMCPServer(version)
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return mcpSrv
	}, nil)
}
