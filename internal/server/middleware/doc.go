// Package middleware provides HTTP middleware for the streamable HTTP
// transport: request metrics with bounded path cardinality and a standard
// set of security headers.
package middleware
