package kubectl

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every spawn request and replays queued results.
// When the queue is empty it reports a successful, silent process.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []processSpec
	results []*processResult
	err     error

	// onRun is invoked under the lock for assertions that must observe
	// state while the process is "running" (e.g. kubeconfig existence).
	onRun func(spec processSpec)
}

func (f *fakeRunner) run(_ context.Context, spec processSpec) (*processResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, spec)
	if f.onRun != nil {
		f.onRun(spec)
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > 0 {
		res := f.results[0]
		f.results = f.results[1:]
		return res, nil
	}
	return &processResult{exitCode: 0}, nil
}

func (f *fakeRunner) spawnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) call(i int) processSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func okLookPath(s string) (string, error) { return s, nil }

func testCredential() Credential {
	return Credential{ServerURL: "https://cluster.example.com:6443", BearerToken: "tok"}
}

func newTestExecutor(t *testing.T, fake *fakeRunner, opts ...Option) Executor {
	t.Helper()
	base := []Option{
		withRunner(fake),
		withLookPath(okLookPath),
		WithTempDir(t.TempDir()),
		WithPreflight(false),
	}
	return NewExecutor(append(base, opts...)...)
}

func TestExecuteUntrustedCommandSpawnsNothing(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake)

	res, err := exec.Execute(context.Background(), testCredential(), Command{Argv: []string{"bash", "-c", "true"}})

	require.ErrorIs(t, err, ErrUntrustedCommand)
	require.NotNil(t, res)
	assert.Equal(t, ReasonUntrustedCommand, res.FailureReason)
	assert.False(t, res.Succeeded)
	assert.Zero(t, fake.spawnCount())
}

func TestExecuteValidationFailuresSpawnNothing(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"non-numeric replicas", Deployment{Name: "web", Image: "nginx", Replicas: "many"}},
		{"empty raw manifest", RawManifest{Text: "  \n "}},
		{"delete without kind", DeleteRequest{Name: "web"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRunner{}
			exec := newTestExecutor(t, fake)

			res, err := exec.Execute(context.Background(), testCredential(), tt.desc)

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, ReasonValidation, res.FailureReason)
			assert.Zero(t, fake.spawnCount())
		})
	}
}

func TestExecuteRejectsInvalidCredential(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake)

	res, err := exec.Execute(context.Background(), Credential{}, DeleteRequest{Kind: "pod", Name: "p"})

	require.Error(t, err)
	assert.Equal(t, ReasonValidation, res.FailureReason)
	assert.Zero(t, fake.spawnCount())
}

func TestExecuteSuccess(t *testing.T) {
	var kubeconfigDuringRun string
	fake := &fakeRunner{
		results: []*processResult{{stdout: "deployment.apps/web created\n", exitCode: 0}},
	}
	fake.onRun = func(spec processSpec) {
		for _, kv := range spec.env {
			if strings.HasPrefix(kv, "KUBECONFIG=") {
				kubeconfigDuringRun = strings.TrimPrefix(kv, "KUBECONFIG=")
			}
		}
	}

	exec := newTestExecutor(t, fake)
	desc := Deployment{Name: "web", Image: "nginx:1.27", Replicas: "2"}

	res, err := exec.Execute(context.Background(), testCredential(), desc)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "deployment.apps/web created\n", res.Stdout)
	require.NotNil(t, res.ExitCode)
	assert.Zero(t, *res.ExitCode)
	assert.Empty(t, res.FailureReason)

	require.Equal(t, 1, fake.spawnCount())
	spec := fake.call(0)
	assert.Equal(t, []string{"apply", "-f", "-"}, spec.args)
	assert.Contains(t, string(spec.stdin), "kind: Deployment")
	assert.Equal(t, DefaultStructuredTimeout, spec.timeout)

	// The credential file existed for the child and is gone afterwards.
	require.NotEmpty(t, kubeconfigDuringRun)
	_, statErr := os.Stat(kubeconfigDuringRun)
	assert.True(t, os.IsNotExist(statErr), "kubeconfig must be removed after Execute returns")
}

func TestExecutePreflightProbeRunsFirst(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake, WithPreflight(true))

	_, err := exec.Execute(context.Background(), testCredential(), RawManifest{Text: "kind: Pod"})

	require.NoError(t, err)
	require.Equal(t, 2, fake.spawnCount())
	assert.Equal(t, []string{"get", "namespaces"}, fake.call(0).args)
	assert.Equal(t, []string{"apply", "-f", "-"}, fake.call(1).args)
}

func TestExecutePreflightFailureBlocksPrimaryAction(t *testing.T) {
	fake := &fakeRunner{
		results: []*processResult{{stderr: "Unauthorized", exitCode: 1}},
	}
	exec := newTestExecutor(t, fake, WithPreflight(true))

	res, err := exec.Execute(context.Background(), testCredential(), RawManifest{Text: "kind: Pod"})

	require.NoError(t, err)
	assert.Equal(t, ReasonConnectivity, res.FailureReason)
	assert.Equal(t, "Unauthorized", res.Stderr)
	assert.Equal(t, 1, fake.spawnCount(), "the primary action must never run after a failed probe")
}

func TestExecuteNonZeroExit(t *testing.T) {
	fake := &fakeRunner{
		results: []*processResult{{stderr: "error: the server doesn't have a resource type \"pod2\"", exitCode: 1}},
	}
	exec := newTestExecutor(t, fake)

	res, err := exec.Execute(context.Background(), testCredential(), Command{Argv: []string{"kubectl", "get", "pod2"}})

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, ReasonNonZeroExit, res.FailureReason)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 1, *res.ExitCode)
	assert.Contains(t, res.Stderr, "resource type")
}

func TestExecuteTimeout(t *testing.T) {
	fake := &fakeRunner{
		results: []*processResult{{stdout: "partial", timedOut: true}},
	}
	exec := newTestExecutor(t, fake)

	res, err := exec.ExecuteWithTimeout(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"}, 2*time.Second)

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, ReasonTimeout, res.FailureReason)
	assert.Nil(t, res.ExitCode)
	assert.Contains(t, res.Stderr, "timed out after 2s")
	assert.Empty(t, res.Stdout, "partial output is discarded on timeout")
}

func TestExecuteTimeoutDefaultsPerVariant(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake)

	_, err := exec.Execute(context.Background(), testCredential(), RawManifest{Text: "kind: Pod"})
	require.NoError(t, err)
	assert.Equal(t, DefaultManifestTimeout, fake.call(0).timeout)

	_, err = exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})
	require.NoError(t, err)
	assert.Equal(t, DefaultStructuredTimeout, fake.call(1).timeout)

	// Freeform commands may apply manifests or wait on rollouts, so they
	// share the long timeout class.
	_, err = exec.Execute(context.Background(), testCredential(), Command{Argv: []string{"kubectl", "apply", "-f", "app.yaml"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultManifestTimeout, fake.call(2).timeout)
}

func TestExecuteDryRunUsesServerSideDryRun(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"create deployment", Deployment{Name: "web", Image: "nginx"}},
		{"create service", Service{Name: "web", Port: 80}},
		{"raw manifest", RawManifest{Text: "kind: Pod"}},
		{"delete resource", DeleteRequest{Kind: "deployment", Name: "web"}},
		{"freeform mutating command", Command{Argv: []string{"kubectl", "scale", "deployment/web", "--replicas=2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRunner{}
			exec := newTestExecutor(t, fake, WithDryRun(true))

			res, err := exec.Execute(context.Background(), testCredential(), tt.desc)

			require.NoError(t, err)
			assert.True(t, res.Succeeded)
			require.Equal(t, 1, fake.spawnCount())
			assert.Contains(t, fake.call(0).args, "--dry-run=server")
		})
	}
}

func TestExecuteDryRunLeavesReadsUntouched(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake, WithDryRun(true))

	_, err := exec.Execute(context.Background(), testCredential(), Command{Argv: []string{"kubectl", "get", "pods"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"get", "pods"}, fake.call(0).args)
}

func TestExecuteDryRunDoesNotMutateCallerArgv(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake, WithDryRun(true))
	argv := []string{"kubectl", "delete", "pod", "p"}

	_, err := exec.Execute(context.Background(), testCredential(), Command{Argv: argv})

	require.NoError(t, err)
	assert.Contains(t, fake.call(0).args, "--dry-run=server")
	assert.Equal(t, []string{"kubectl", "delete", "pod", "p"}, argv)
}

func TestExecuteWithoutDryRunLeavesArgsUntouched(t *testing.T) {
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake)

	_, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})

	require.NoError(t, err)
	assert.NotContains(t, fake.call(0).args, "--dry-run=server")
}

func TestExecuteBinaryUnavailable(t *testing.T) {
	fake := &fakeRunner{}
	exec := NewExecutor(
		withRunner(fake),
		withLookPath(func(string) (string, error) { return "", errors.New("not found") }),
		WithTempDir(t.TempDir()),
		WithPreflight(false),
	)

	res, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})

	require.ErrorIs(t, err, ErrExecutorUnavailable)
	assert.Equal(t, ReasonExecutorUnavailable, res.FailureReason)
	assert.Zero(t, fake.spawnCount())
}

type fakeInstaller struct {
	mu    sync.Mutex
	calls int
	path  string
	err   error
}

func (f *fakeInstaller) Install(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.path, f.err
}

func TestExecuteInstallerRunsOnce(t *testing.T) {
	installed := "/opt/portal/bin/kubectl"
	installer := &fakeInstaller{path: installed}
	fake := &fakeRunner{}

	lookups := 0
	exec := NewExecutor(
		withRunner(fake),
		withLookPath(func(name string) (string, error) {
			if name == installed {
				return installed, nil
			}
			lookups++
			return "", errors.New("not found")
		}),
		WithInstaller(installer),
		WithTempDir(t.TempDir()),
		WithPreflight(false),
	)

	for i := 0; i < 3; i++ {
		res, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})
		require.NoError(t, err)
		assert.True(t, res.Succeeded)
	}

	assert.Equal(t, 1, installer.calls, "installation is attempted at most once")
	assert.Equal(t, installed, fake.call(0).binary)
}

func TestExecuteInstallerFailureIsNotRetried(t *testing.T) {
	installer := &fakeInstaller{err: errors.New("download refused")}
	fake := &fakeRunner{}
	exec := NewExecutor(
		withRunner(fake),
		withLookPath(func(string) (string, error) { return "", errors.New("not found") }),
		WithInstaller(installer),
		WithTempDir(t.TempDir()),
		WithPreflight(false),
	)

	for i := 0; i < 3; i++ {
		_, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})
		require.ErrorIs(t, err, ErrExecutorUnavailable)
	}

	assert.Equal(t, 1, installer.calls)
	assert.Zero(t, fake.spawnCount())
}

func TestExecuteSpawnObserver(t *testing.T) {
	var stages []string
	fake := &fakeRunner{}
	exec := newTestExecutor(t, fake,
		WithPreflight(true),
		WithSpawnObserver(func(stage string) { stages = append(stages, stage) }),
	)

	_, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})
	require.NoError(t, err)
	assert.Equal(t, []string{"probe", "primary"}, stages)
}

func TestExecuteConcurrentCallsAreIsolated(t *testing.T) {
	// onRun executes under the runner lock, so the map needs no extra
	// synchronization.
	seen := make(map[string]bool)

	fake := &fakeRunner{}
	fake.onRun = func(spec processSpec) {
		for _, kv := range spec.env {
			if strings.HasPrefix(kv, "KUBECONFIG=") {
				seen[strings.TrimPrefix(kv, "KUBECONFIG=")] = true
			}
		}
	}

	dir := t.TempDir()
	exec := NewExecutor(withRunner(fake), withLookPath(okLookPath), WithTempDir(dir), WithPreflight(false))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exec.Execute(context.Background(), testCredential(), DeleteRequest{Kind: "pod", Name: "p"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100, "each call must get its own kubeconfig")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no kubeconfig may survive a call")
}
