// Package httpserver provides the HTTP server of the OfChat development
// backend.
//
// It uses the Go standard library net/http and serves:
//
//   - /sms?action=send|verify: SMS verification codes
//   - /auth?action=register|login|profile: accounts
//   - /users?action=search|add_contact|contacts: user search and contacts
//   - /health and /metrics
//
// Requests to the action endpoints pass through Recover, RequestID,
// Metrics, Audit, CORS and a per-IP RateLimit.
package httpserver
