//go:build unix

package kubectl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the real process runner with shell builtins so
// they need no kubectl on the machine.

func TestExecRunnerCapturesStreamsAndExitCode(t *testing.T) {
	res, err := execRunner{}.run(context.Background(), processSpec{
		binary:  "/bin/sh",
		args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
		timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, "out\n", res.stdout)
	assert.Equal(t, "err\n", res.stderr)
	assert.Equal(t, 3, res.exitCode)
	assert.False(t, res.timedOut)
}

func TestExecRunnerWritesStdin(t *testing.T) {
	res, err := execRunner{}.run(context.Background(), processSpec{
		binary:  "/bin/cat",
		stdin:   []byte("kind: Pod\n"),
		timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, "kind: Pod\n", res.stdout)
	assert.Zero(t, res.exitCode)
}

func TestExecRunnerPassesExtraEnv(t *testing.T) {
	res, err := execRunner{}.run(context.Background(), processSpec{
		binary:  "/bin/sh",
		args:    []string{"-c", "printf '%s' \"$KUBECONFIG\""},
		env:     []string{"KUBECONFIG=/tmp/test.kubeconfig"},
		timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.kubeconfig", res.stdout)
}

func TestExecRunnerKillsProcessOnTimeout(t *testing.T) {
	start := time.Now()
	res, err := execRunner{}.run(context.Background(), processSpec{
		binary:  "/bin/sh",
		args:    []string{"-c", "sleep 30"},
		timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.timedOut)
	// Well under the sleep duration: the child was terminated, not waited for.
	assert.Less(t, elapsed, 10*time.Second)
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	_, err := execRunner{}.run(context.Background(), processSpec{
		binary:  "/nonexistent/binary",
		timeout: time.Second,
	})
	require.Error(t, err)
}
