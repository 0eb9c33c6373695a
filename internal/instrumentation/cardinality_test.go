package instrumentation

import "testing"

func TestClassifyEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		expected EndpointKind
	}{
		{"", EndpointKindUnknown},
		{"https://localhost:6443", EndpointKindLoopback},
		{"https://127.0.0.1:6443", EndpointKindLoopback},
		{"https://10.0.1.50:6443", EndpointKindIP},
		{"https://192.168.1.1", EndpointKindIP},
		{"https://[::1]:6443", EndpointKindLoopback},
		{"https://api.cluster.example.com:6443", EndpointKindDNS},
		{"https://kubernetes.default.svc", EndpointKindDNS},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			if kind := ClassifyEndpoint(tt.endpoint); kind != tt.expected {
				t.Errorf("ClassifyEndpoint(%q) = %q, want %q", tt.endpoint, kind, tt.expected)
			}
		})
	}
}

func TestClassifyEndpointSanitizedHost(t *testing.T) {
	// Sanitized endpoints replace the IP with a placeholder, which is not a
	// DNS name in any cluster but still classifies as dns rather than
	// leaking back into the ip bucket.
	if kind := ClassifyEndpoint("https://[redacted-ip]:6443"); kind != EndpointKindDNS {
		t.Errorf("ClassifyEndpoint(sanitized) = %q, want %q", kind, EndpointKindDNS)
	}
}
