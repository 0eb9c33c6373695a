// Package logging provides structured logging utilities built on the
// standard library's slog package.
//
// It has two halves: an adapter that lets *slog.Logger satisfy the
// server.Logger interface, and a set of attribute helpers that keep log
// field names consistent across the codebase.
//
// # Security Considerations
//
// Log output must never contain bearer tokens or raw cluster IP
// addresses. Token returns a length indicator only, Endpoint redacts IP
// hosts, and SanitizedErr scrubs IPs out of freeform error text before
// it reaches a handler.
package logging
