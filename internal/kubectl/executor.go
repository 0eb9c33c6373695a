package kubectl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// probeTimeout bounds the pre-flight namespace listing. The probe is a
// lightweight read; a cluster that cannot answer it within this window
// will not fare better on the primary action.
const probeTimeout = 10 * time.Second

// Logger is the minimal logging interface the executor needs. The server
// layer injects its own implementation.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Executor turns a credential and a descriptor into one kubectl
// invocation and a structured result. Implementations are safe for
// concurrent use; every call is self-contained.
type Executor interface {
	// Execute runs the descriptor with the variant's default timeout.
	Execute(ctx context.Context, cred Credential, desc Descriptor) (*Result, error)

	// ExecuteWithTimeout runs the descriptor with an explicit timeout.
	// A non-positive timeout falls back to the variant default.
	ExecuteWithTimeout(ctx context.Context, cred Credential, desc Descriptor, timeout time.Duration) (*Result, error)

	// Available reports whether the kubectl binary can currently be
	// located. Used by health checks; never triggers installation.
	Available() bool
}

// Option configures an executor.
type Option func(*executor)

// WithBinary overrides the trusted binary name or path. The default is
// "kubectl" resolved via the process search path.
func WithBinary(binary string) Option {
	return func(e *executor) { e.binary = binary }
}

// WithTempDir overrides the directory for ephemeral kubeconfig files.
func WithTempDir(dir string) Option {
	return func(e *executor) { e.tempDir = dir }
}

// WithInstaller enables the one-time synchronous install fallback used
// when kubectl is absent from the search path.
func WithInstaller(installer Installer) Option {
	return func(e *executor) { e.installer = installer }
}

// WithPreflight toggles the connectivity probe that runs before every
// primary action. Enabled by default.
func WithPreflight(enabled bool) Option {
	return func(e *executor) { e.preflight = enabled }
}

// WithDryRun routes every mutating invocation through kubectl's
// server-side dry run. The API server runs admission and validation but
// persists nothing. Read-only invocations are unaffected; freeform
// commands with an unrecognized verb are treated as mutating.
func WithDryRun(enabled bool) Option {
	return func(e *executor) { e.dryRun = enabled }
}

// WithLogger sets the logger for cleanup failures and debug output.
func WithLogger(logger Logger) Option {
	return func(e *executor) { e.logger = logger }
}

// WithDefaultTimeouts overrides the per-variant default timeouts.
// Non-positive values keep the built-in defaults.
func WithDefaultTimeouts(structured, manifest time.Duration) Option {
	return func(e *executor) {
		if structured > 0 {
			e.structuredTimeout = structured
		}
		if manifest > 0 {
			e.manifestTimeout = manifest
		}
	}
}

// WithSpawnObserver registers a callback invoked once per spawned child
// process with the stage name ("probe" or "primary"). Used for metrics.
func WithSpawnObserver(observe func(stage string)) Option {
	return func(e *executor) { e.observeSpawn = observe }
}

func withRunner(r runner) Option {
	return func(e *executor) { e.runner = r }
}

func withLookPath(lookPath func(string) (string, error)) Option {
	return func(e *executor) { e.lookPath = lookPath }
}

type executor struct {
	binary            string
	tempDir           string
	preflight         bool
	dryRun            bool
	structuredTimeout time.Duration
	manifestTimeout   time.Duration

	runner       runner
	lookPath     func(string) (string, error)
	logger       Logger
	observeSpawn func(stage string)

	installer   Installer
	installOnce sync.Once
	installPath string
	installErr  error
}

// NewExecutor creates an executor with the given options. The zero
// configuration resolves "kubectl" from the search path, probes
// connectivity before every action, and writes credential files to the
// system temp directory.
func NewExecutor(opts ...Option) Executor {
	e := &executor{
		binary:            TrustedBinary,
		preflight:         true,
		structuredTimeout: DefaultStructuredTimeout,
		manifestTimeout:   DefaultManifestTimeout,
		runner:            execRunner{},
		lookPath:          exec.LookPath,
		logger:            noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executor) Available() bool {
	_, err := e.lookPath(e.binary)
	return err == nil
}

func (e *executor) Execute(ctx context.Context, cred Credential, desc Descriptor) (*Result, error) {
	return e.ExecuteWithTimeout(ctx, cred, desc, 0)
}

func (e *executor) ExecuteWithTimeout(ctx context.Context, cred Credential, desc Descriptor, timeout time.Duration) (*Result, error) {
	// Reject bad input before anything touches the OS.
	if err := desc.validate(); err != nil {
		return e.classifyValidation(err), err
	}
	if err := cred.validate(); err != nil {
		return failure(ReasonValidation, err.Error()), err
	}

	inv, err := desc.invocation()
	if err != nil {
		return e.classifyValidation(err), err
	}
	if e.dryRun && inv.mutates {
		// Full slice expression so the append never writes into a
		// caller-owned argv backing array.
		inv.args = append(inv.args[:len(inv.args):len(inv.args)], "--dry-run=server")
	}
	if timeout <= 0 {
		timeout = e.defaultTimeout(inv)
	}

	binary, err := e.resolveBinary(ctx)
	if err != nil {
		return failure(ReasonExecutorUnavailable, err.Error()), err
	}

	kubeconfigPath, cleanup, err := cred.materialize(e.tempDir)
	if err != nil {
		return failure(ReasonIO, err.Error()), err
	}
	defer func() {
		// Cleanup failure is logged but never masks the action's result.
		if rmErr := cleanup(); rmErr != nil && !os.IsNotExist(rmErr) {
			e.logger.Error("failed to remove ephemeral kubeconfig", "path", kubeconfigPath, "error", rmErr)
		}
	}()

	// The child sees the credential through KUBECONFIG only; the parent
	// environment is never mutated.
	env := []string{"KUBECONFIG=" + kubeconfigPath}

	if e.preflight {
		if res, err := e.probe(ctx, binary, env); res != nil || err != nil {
			return res, err
		}
	}

	e.spawn("primary")
	procRes, err := e.runner.run(ctx, processSpec{
		binary:  binary,
		args:    inv.args,
		stdin:   inv.stdin,
		env:     env,
		timeout: timeout,
	})
	if err != nil {
		return failure(ReasonExecutorUnavailable, err.Error()), fmt.Errorf("failed to run %s: %w", TrustedBinary, err)
	}

	return classify(procRes, timeout), nil
}

// probe runs the lightweight connectivity pre-check. It returns a
// non-nil result only when the probe failed and the primary action must
// not be attempted.
func (e *executor) probe(ctx context.Context, binary string, env []string) (*Result, error) {
	e.spawn("probe")
	res, err := e.runner.run(ctx, processSpec{
		binary:  binary,
		args:    []string{"get", "namespaces"},
		env:     env,
		timeout: probeTimeout,
	})
	if err != nil {
		return failure(ReasonExecutorUnavailable, err.Error()), fmt.Errorf("failed to run connectivity probe: %w", err)
	}
	if res.timedOut {
		return failure(ReasonConnectivity, fmt.Sprintf("connectivity probe timed out after %s", probeTimeout)), nil
	}
	if res.exitCode != 0 {
		return failure(ReasonConnectivity, res.stderr), nil
	}
	return nil, nil
}

func (e *executor) resolveBinary(ctx context.Context) (string, error) {
	if path, err := e.lookPath(e.binary); err == nil {
		return path, nil
	}
	if e.installer == nil {
		return "", ErrExecutorUnavailable
	}

	// One-time install fallback: at most one download per process, never
	// retried automatically.
	e.installOnce.Do(func() {
		e.logger.Info("kubectl not found on PATH, attempting one-time install")
		e.installPath, e.installErr = e.installer.Install(ctx)
		if e.installErr == nil {
			e.logger.Info("installed kubectl", "path", e.installPath)
		}
	})
	if e.installErr != nil {
		return "", fmt.Errorf("install failed: %v: %w", e.installErr, ErrExecutorUnavailable)
	}
	if _, err := e.lookPath(e.installPath); err != nil {
		return "", fmt.Errorf("installed binary not executable: %w", ErrExecutorUnavailable)
	}
	return e.installPath, nil
}

func (e *executor) defaultTimeout(inv invocation) time.Duration {
	if inv.defaultTimeout == DefaultManifestTimeout {
		return e.manifestTimeout
	}
	return e.structuredTimeout
}

func (e *executor) classifyValidation(err error) *Result {
	if isUntrusted(err) {
		return failure(ReasonUntrustedCommand, err.Error())
	}
	return failure(ReasonValidation, err.Error())
}

func (e *executor) spawn(stage string) {
	if e.observeSpawn != nil {
		e.observeSpawn(stage)
	}
}

func classify(res *processResult, timeout time.Duration) *Result {
	if res.timedOut {
		// Partial output is discarded beyond the timeout marker.
		return failure(ReasonTimeout, fmt.Sprintf("command timed out after %s", timeout))
	}

	exitCode := res.exitCode
	out := &Result{
		Stdout:   res.stdout,
		Stderr:   res.stderr,
		ExitCode: &exitCode,
	}
	if exitCode == 0 {
		out.Succeeded = true
	} else {
		out.FailureReason = ReasonNonZeroExit
	}
	return out
}

func isUntrusted(err error) bool {
	return errors.Is(err, ErrUntrustedCommand)
}
