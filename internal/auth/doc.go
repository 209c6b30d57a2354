// Package auth gates MCP tool invocations behind a shared-secret API key.
//
// # Design
//
// The package splits into a transport-free core and an HTTP adapter:
//
//   - ExtractAPIKey reads the X-API-Key header from an explicitly passed
//     http.Header. There is no ambient request state anywhere.
//   - Gate.Check consults the key store and returns a sentinel error class:
//     ErrMissingKey or ErrInvalidKey (both ErrUnauthorized),
//     ErrStorageUnavailable, or ErrMalformedRequest.
//   - Middleware translates those classes to HTTP responses: 401 with a
//     specific message for credential rejections, 503 with a generic body
//     for storage faults.
//
// # Request States
//
// Every gated request ends in exactly one of three states: rejected (401),
// failed (503), or forwarded. A forwarded request runs the wrapped handler
// exactly once and its response is not modified.
//
// # Logging
//
// Failures are logged with a reason attribute (missing_key, invalid_key,
// store_error, malformed_headers). The candidate credential value is never
// logged, on any path.
package auth
