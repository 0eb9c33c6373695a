package instrumentation

import (
	"net"
	"net/url"
	"strings"
)

// Cardinality management helpers for metrics and log attributes.
//
// Cluster endpoints are supplied by portal users and are effectively
// unbounded. When a coarse label is needed, classify the endpoint into a
// small fixed set instead of using the raw host.

// EndpointKind classifies a cluster endpoint for metrics and log labels.
type EndpointKind string

const (
	// EndpointKindLoopback represents localhost and loopback addresses.
	EndpointKindLoopback EndpointKind = "loopback"

	// EndpointKindIP represents endpoints addressed by a raw IP.
	EndpointKindIP EndpointKind = "ip"

	// EndpointKindDNS represents endpoints addressed by a DNS name.
	EndpointKindDNS EndpointKind = "dns"

	// EndpointKindUnknown represents empty or unparsable endpoints.
	EndpointKindUnknown EndpointKind = "unknown"
)

// ClassifyEndpoint classifies a cluster server URL into an EndpointKind.
// The raw host never becomes a metric label; only the kind does.
func ClassifyEndpoint(serverURL string) EndpointKind {
	if serverURL == "" {
		return EndpointKindUnknown
	}

	host := serverURL
	if u, err := url.Parse(serverURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if host == "" {
		return EndpointKindUnknown
	}
	if host == "localhost" {
		return EndpointKindLoopback
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() {
			return EndpointKindLoopback
		}
		return EndpointKindIP
	}
	return EndpointKindDNS
}
