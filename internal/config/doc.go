// Package config handles configuration loading for keygate.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// A missing config file is not fatal: LoadOrDefault falls back to built-in
// defaults so a first run needs no setup at all.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from KEYGATE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/keygate/keygate.yaml
//  3. ~/.config/keygate/keygate.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	tailscale:
//	  auth_key: "${TS_AUTHKEY}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "localhost:8080"  # MCP endpoint, usage page, health check
//
// Database:
//
//	database:
//	  path: "keygate.db"
//
// Tailscale:
//
//	tailscale:
//	  enabled: false
//	  hostname: "keygate"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//	  funnel: false
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - server.http_addr present unless tailscale is enabled
//   - tailscale.hostname present when tailscale is enabled
//   - database.path present
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/keygate/keygate.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Load with fallback to defaults when the file does not exist:
//
//	cfg, err := config.LoadOrDefault(path)
package config
