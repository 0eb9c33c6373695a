package kubectl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TrustedBinary is the only external program the executor will spawn.
const TrustedBinary = "kubectl"

// Default timeouts per spec: structured commands are quick kubectl
// invocations, raw manifest application may compile large objects
// server-side and gets more headroom.
const (
	DefaultStructuredTimeout = 30 * time.Second
	DefaultManifestTimeout   = 60 * time.Second
)

// Descriptor is one of the defined resource operation variants. A
// descriptor is produced from validated user input, is immutable, and is
// consumed by exactly one Execute call.
type Descriptor interface {
	// Operation is the short name used in metrics, audit records, and
	// log output.
	Operation() string

	// validate rejects malformed descriptors before any process spawns.
	validate() error

	// invocation renders the descriptor into an argument vector and
	// optional stdin payload for the trusted binary.
	invocation() (invocation, error)
}

// invocation is a rendered descriptor: the kubectl argument vector, the
// manifest bytes (if any) destined for the child's stdin, the default
// timeout class for the action, and whether the action can change
// cluster state.
type invocation struct {
	args           []string
	stdin          []byte
	defaultTimeout time.Duration
	mutates        bool
}

// Deployment describes an apps/v1 Deployment with a single container.
// Replicas is kept as the raw user input; a non-numeric or negative value
// is a validation error, never silently coerced.
type Deployment struct {
	Name      string
	Image     string
	Replicas  string
	Port      int
	Namespace string
}

func (d Deployment) Operation() string { return "create_deployment" }

func (d Deployment) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "deployment", Msg: "name is required"}
	}
	if strings.TrimSpace(d.Image) == "" {
		return &ValidationError{Field: "deployment", Msg: "image is required"}
	}
	if _, err := d.replicaCount(); err != nil {
		return err
	}
	if d.Port < 0 || d.Port > 65535 {
		return &ValidationError{Field: "deployment", Msg: fmt.Sprintf("port %d is out of range", d.Port)}
	}
	return nil
}

func (d Deployment) replicaCount() (int32, error) {
	raw := strings.TrimSpace(d.Replicas)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "deployment", Msg: fmt.Sprintf("replicas %q is not a number", d.Replicas)}
	}
	if n < 0 {
		return 0, &ValidationError{Field: "deployment", Msg: fmt.Sprintf("replicas must be non-negative, got %d", n)}
	}
	return int32(n), nil
}

func (d Deployment) namespaceOrDefault() string {
	if d.Namespace == "" {
		return DefaultNamespace
	}
	return d.Namespace
}

func (d Deployment) invocation() (invocation, error) {
	manifest, err := d.Manifest()
	if err != nil {
		return invocation{}, err
	}
	return invocation{
		args:           []string{"apply", "-f", "-"},
		stdin:          manifest,
		defaultTimeout: DefaultStructuredTimeout,
		mutates:        true,
	}, nil
}

// Service describes a v1 Service with a single TCP port mapping.
// TargetPort defaults to Port when not supplied.
type Service struct {
	Name       string
	Port       int
	TargetPort int
	Type       string
	Namespace  string
}

func (s Service) Operation() string { return "create_service" }

var serviceTypes = map[string]bool{
	"":             true, // defaults to ClusterIP
	"ClusterIP":    true,
	"NodePort":     true,
	"LoadBalancer": true,
}

func (s Service) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "service", Msg: "name is required"}
	}
	if s.Port <= 0 || s.Port > 65535 {
		return &ValidationError{Field: "service", Msg: fmt.Sprintf("port %d is out of range", s.Port)}
	}
	if s.TargetPort < 0 || s.TargetPort > 65535 {
		return &ValidationError{Field: "service", Msg: fmt.Sprintf("target port %d is out of range", s.TargetPort)}
	}
	if !serviceTypes[s.Type] {
		return &ValidationError{Field: "service", Msg: fmt.Sprintf("unknown service type %q", s.Type)}
	}
	return nil
}

func (s Service) targetPortOrDefault() int {
	if s.TargetPort == 0 {
		return s.Port
	}
	return s.TargetPort
}

func (s Service) typeOrDefault() string {
	if s.Type == "" {
		return "ClusterIP"
	}
	return s.Type
}

func (s Service) namespaceOrDefault() string {
	if s.Namespace == "" {
		return DefaultNamespace
	}
	return s.Namespace
}

func (s Service) invocation() (invocation, error) {
	manifest, err := s.Manifest()
	if err != nil {
		return invocation{}, err
	}
	return invocation{
		args:           []string{"apply", "-f", "-"},
		stdin:          manifest,
		defaultTimeout: DefaultStructuredTimeout,
		mutates:        true,
	}, nil
}

// RawManifest applies freeform YAML or JSON verbatim. The executor does
// not parse the text; kubectl owns validation. Empty or whitespace-only
// text is rejected before a process spawns.
type RawManifest struct {
	Text string

	// Namespace, when set, is passed as a -n override for objects that do
	// not pin their own namespace.
	Namespace string
}

func (m RawManifest) Operation() string { return "apply_manifest" }

func (m RawManifest) validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return &ValidationError{Field: "manifest", Msg: "text is empty"}
	}
	return nil
}

func (m RawManifest) invocation() (invocation, error) {
	args := []string{"apply", "-f", "-"}
	if m.Namespace != "" {
		args = append(args, "-n", m.Namespace)
	}
	return invocation{
		args:           args,
		stdin:          []byte(m.Text),
		defaultTimeout: DefaultManifestTimeout,
		mutates:        true,
	}, nil
}

// DeleteRequest removes a resource by kind and name within a namespace.
type DeleteRequest struct {
	Kind      string
	Name      string
	Namespace string
}

func (d DeleteRequest) Operation() string { return "delete_resource" }

func (d DeleteRequest) validate() error {
	if strings.TrimSpace(d.Kind) == "" {
		return &ValidationError{Field: "delete", Msg: "resource kind is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "delete", Msg: "resource name is required"}
	}
	return nil
}

func (d DeleteRequest) namespaceOrDefault() string {
	if d.Namespace == "" {
		return DefaultNamespace
	}
	return d.Namespace
}

func (d DeleteRequest) invocation() (invocation, error) {
	return invocation{
		args:           []string{"delete", d.Kind, d.Name, "-n", d.namespaceOrDefault()},
		defaultTimeout: DefaultStructuredTimeout,
		mutates:        true,
	}, nil
}

// Command is an arbitrary kubectl invocation. The first token must be the
// trusted binary name; anything else is rejected so this path cannot be
// used to run other programs.
type Command struct {
	Argv []string
}

// ParseCommand splits a freeform command line into a Command descriptor.
func ParseCommand(line string) Command {
	return Command{Argv: strings.Fields(line)}
}

func (c Command) Operation() string { return "run_command" }

func (c Command) validate() error {
	if len(c.Argv) == 0 {
		return &ValidationError{Field: "command", Msg: "command is empty"}
	}
	if c.Argv[0] != TrustedBinary {
		return fmt.Errorf("first token %q: %w", c.Argv[0], ErrUntrustedCommand)
	}
	if len(c.Argv) == 1 {
		return &ValidationError{Field: "command", Msg: "kubectl needs at least one argument"}
	}
	return nil
}

// readOnlyVerbs are kubectl subcommands that cannot change cluster
// state. Any other verb is treated as mutating, so dry-run mode fails
// closed on verbs it does not recognize.
var readOnlyVerbs = map[string]bool{
	"api-resources": true,
	"api-versions":  true,
	"cluster-info":  true,
	"describe":      true,
	"diff":          true,
	"explain":       true,
	"get":           true,
	"logs":          true,
	"top":           true,
	"version":       true,
}

func (c Command) invocation() (invocation, error) {
	// Freeform commands share the long timeout class: the caller may be
	// applying manifests or waiting on rollouts through this path.
	return invocation{
		args:           c.Argv[1:],
		defaultTimeout: DefaultManifestTimeout,
		mutates:        !readOnlyVerbs[c.Argv[1]],
	}, nil
}
