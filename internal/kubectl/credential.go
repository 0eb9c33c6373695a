package kubectl

import (
	"crypto/sha256"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// TLSMode controls how the cluster's serving certificate is verified.
type TLSMode int

const (
	// TLSVerify verifies the serving certificate against the system roots.
	TLSVerify TLSMode = iota

	// TLSSkipVerify disables certificate verification.
	TLSSkipVerify

	// TLSVerifyCA verifies against the CA bundle in Credential.CAData.
	TLSVerifyCA
)

// DefaultNamespace is used when a credential does not name a namespace.
const DefaultNamespace = "default"

// Credential identifies a cluster endpoint and the bearer token used to
// authenticate against it. It is immutable and lives only for the
// duration of one Execute call; the token is materialized to disk only as
// a uniquely named, owner-readable kubeconfig whose lifetime is bounded
// by that call.
type Credential struct {
	ServerURL   string
	BearerToken string
	Namespace   string
	TLSMode     TLSMode

	// CAData is the PEM bundle used when TLSMode is TLSVerifyCA.
	CAData []byte
}

func (c Credential) validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return &ValidationError{Field: "credential", Msg: "server URL is required"}
	}
	if strings.TrimSpace(c.BearerToken) == "" {
		return &ValidationError{Field: "credential", Msg: "bearer token is required"}
	}
	if c.TLSMode == TLSVerifyCA && len(c.CAData) == 0 {
		return &ValidationError{Field: "credential", Msg: "CA data is required when verifying with a custom CA"}
	}
	return nil
}

func (c Credential) namespaceOrDefault() string {
	if c.Namespace == "" {
		return DefaultNamespace
	}
	return c.Namespace
}

// Redacted returns an opaque reference to the credential that is safe for
// logs and audit records: the sanitized server host plus a token
// fingerprint. The token itself never appears.
func (c Credential) Redacted() string {
	sum := sha256.Sum256([]byte(c.BearerToken))
	return fmt.Sprintf("%s (token sha256:%x)", SanitizeHost(c.ServerURL), sum[:4])
}

// kubeconfig assembles a single-context client configuration for the
// credential. The context and entry names are fixed; the file is private
// to one invocation so collisions across clusters cannot occur.
func (c Credential) kubeconfig() *clientcmdapi.Config {
	cluster := clientcmdapi.NewCluster()
	cluster.Server = c.ServerURL
	switch c.TLSMode {
	case TLSSkipVerify:
		cluster.InsecureSkipTLSVerify = true
	case TLSVerifyCA:
		cluster.CertificateAuthorityData = c.CAData
	}

	user := clientcmdapi.NewAuthInfo()
	user.Token = c.BearerToken

	context := clientcmdapi.NewContext()
	context.Cluster = "target"
	context.AuthInfo = "portal"
	context.Namespace = c.namespaceOrDefault()

	config := clientcmdapi.NewConfig()
	config.Clusters["target"] = cluster
	config.AuthInfos["portal"] = user
	config.Contexts["target"] = context
	config.CurrentContext = "target"
	return config
}

// materialize writes the credential to a uniquely named kubeconfig file
// readable only by the owning process. The returned cleanup func removes
// the file and must be called on every exit path.
func (c Credential) materialize(dir string) (path string, cleanup func() error, err error) {
	if dir == "" {
		dir = os.TempDir()
	}

	data, err := clientcmd.Write(*c.kubeconfig())
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}

	path = filepath.Join(dir, "mcp-kubectl-"+uuid.NewString()+".kubeconfig")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("failed to write kubeconfig: %w", err)
	}

	return path, func() error { return os.Remove(path) }, nil
}

// SanitizeHost redacts IP addresses from a server URL so that audit and
// log output does not leak network topology. Hostnames and ports are
// preserved for debugging.
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}

	scheme := ""
	hostPart := host
	if strings.HasPrefix(host, "https://") {
		scheme = "https://"
		hostPart = strings.TrimPrefix(host, "https://")
	} else if strings.HasPrefix(host, "http://") {
		scheme = "http://"
		hostPart = strings.TrimPrefix(host, "http://")
	}

	hostOnly, port, err := net.SplitHostPort(hostPart)
	if err != nil {
		hostOnly = hostPart
		port = ""
	}

	if ip := net.ParseIP(hostOnly); ip != nil {
		redacted := "[redacted-ip]"
		if port != "" {
			return scheme + redacted + ":" + port
		}
		return scheme + redacted
	}

	return host
}
