// ABOUTME: Demo MCP client for keygate
// ABOUTME: Connects over streamable HTTP with an X-API-Key header and calls the greet tool

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389/keygate/internal/auth"
)

// Version is set by goreleaser at build time.
var version = "dev"

const defaultURL = "http://localhost:8080/mcp"

func main() {
	endpoint := flag.String("url", "", "MCP endpoint URL (default "+defaultURL+")")
	apiKey := flag.String("api-key", "", "API key (or KEYGATE_API_KEY, or api_key in client.toml)")
	name := flag.String("name", "", "name to greet (default \"Ford\")")
	list := flag.Bool("list", false, "list the server's tools instead of greeting")
	flag.Parse()

	if err := run(*endpoint, *apiKey, *name, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(endpoint, apiKey, name string, list bool) error {
	configPath := getConfigPath()
	cfg, err := Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	// Flag > env > config file > default
	if endpoint == "" {
		endpoint = cfg.URL
	}
	if endpoint == "" {
		endpoint = defaultURL
	}
	if apiKey == "" {
		apiKey = os.Getenv("KEYGATE_API_KEY")
	}
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key, set KEYGATE_API_KEY, or put api_key in %s", configPath)
	}
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		name = "Ford"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := connect(ctx, endpoint, apiKey)
	if err != nil {
		if strings.Contains(err.Error(), "401") {
			return fmt.Errorf("connecting to %s: %w (is the API key valid?)", endpoint, err)
		}
		return fmt.Errorf("connecting to %s: %w", endpoint, err)
	}
	defer session.Close()

	if list {
		return listTools(ctx, session)
	}
	return greet(ctx, session, name)
}

// apiKeyRoundTripper injects the X-API-Key header into every request.
type apiKeyRoundTripper struct {
	base   http.RoundTripper
	apiKey string
}

func (rt *apiKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := rt.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header = req.Header.Clone()
	clone.Header.Set(auth.APIKeyHeader, rt.apiKey)
	return base.RoundTrip(clone)
}

func connect(ctx context.Context, endpoint, apiKey string) (*mcp.ClientSession, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "keygate-client",
		Version: version,
	}, nil)
	transport := &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Transport: &apiKeyRoundTripper{apiKey: apiKey}},
	}
	return client.Connect(ctx, transport, nil)
}

func listTools(ctx context.Context, session *mcp.ClientSession) error {
	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return fmt.Errorf("ListTools: %w", err)
	}

	if len(res.Tools) == 0 {
		fmt.Println("(no tools)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, tool := range res.Tools {
		fmt.Fprintf(w, "%s\t%s\n", tool.Name, tool.Description)
	}
	return w.Flush()
}

func greet(ctx context.Context, session *mcp.ClientSession, name string) error {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "greet",
		Arguments: map[string]any{"name": name},
	})
	if err != nil {
		return fmt.Errorf("calling greet: %w", err)
	}

	var out strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			out.WriteString(text.Text)
		}
	}

	if res.IsError {
		return fmt.Errorf("greet failed: %s", out.String())
	}

	fmt.Println(out.String())
	return nil
}
