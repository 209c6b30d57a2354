// Package server assembles the keygate HTTP surface.
//
// # Routes
//
//   - GET / - usage page rendered from embedded markdown (ungated)
//   - GET /healthz - liveness check (ungated)
//   - /mcp - MCP streamable HTTP endpoint; every request must pass the
//     X-API-Key gate before the MCP handler sees it
//
// # Lifecycle
//
// New opens the SQLite key store, guarantees a default API key exists
// (surfacing a freshly generated one via BootstrapKey), and builds the mux.
// Run listens on plain TCP or, when tailscale.enabled is set, on a tsnet
// node (optionally with Tailscale-provisioned HTTPS or public Funnel) and
// blocks until the context is canceled or the server fails. Shutdown drains
// HTTP with a 5 second deadline, then closes the tsnet node and the store.
//
// # Tools
//
// A single demo tool is registered: greet, which answers "Hello, <name>!".
// No MCP request reaches it without a valid key.
package server
