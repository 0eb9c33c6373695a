package logging

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyNamespace    = "namespace"
	KeyResourceType = "resource_type"
	KeyResourceName = "resource_name"
	KeyEndpoint     = "endpoint"
	KeyTool         = "tool"
	KeyDuration     = "duration"
	KeyStatus       = "status"
	KeyError        = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches full and compressed IPv6 forms, bracketed or not.
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Namespace returns a slog attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// ResourceType returns a slog attribute for the resource type.
func ResourceType(rt string) slog.Attr {
	return slog.String(KeyResourceType, rt)
}

// ResourceName returns a slog attribute for the resource name.
func ResourceName(name string) slog.Attr {
	return slog.String(KeyResourceName, name)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses
// redacted. Use this for errors that may embed API server addresses,
// which would otherwise leak network topology into logs.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeMessage(err.Error()))
}

// Endpoint returns a slog attribute for a cluster endpoint with IP hosts
// redacted.
func Endpoint(serverURL string) slog.Attr {
	return slog.String(KeyEndpoint, kubectl.SanitizeHost(serverURL))
}

// SanitizeMessage redacts IPv4 and IPv6 addresses anywhere in freeform
// text. Unlike kubectl.SanitizeHost, which expects a single URL or host,
// this handles error strings with embedded addresses.
func SanitizeMessage(msg string) string {
	result := ipv4Regex.ReplaceAllString(msg, "[redacted-ip]")
	return ipv6Regex.ReplaceAllString(result, "[redacted-ip]")
}

// SanitizeToken returns a masked version of a token for logging. Only a
// length indicator survives; even partial prefixes (like JWT headers)
// can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
