package kubectl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// processSpec describes one child process: the resolved binary, its
// argument vector, stdin payload, extra environment entries, and the
// deadline after which it is killed.
type processSpec struct {
	binary  string
	args    []string
	stdin   []byte
	env     []string
	timeout time.Duration
}

// processResult carries the raw outcome of one child process.
type processResult struct {
	stdout   string
	stderr   string
	exitCode int
	timedOut bool
}

// runner abstracts process spawning so tests can intercept and count
// spawns without touching the operating system.
type runner interface {
	run(ctx context.Context, spec processSpec) (*processResult, error)
}

// execRunner spawns real processes via os/exec.
type execRunner struct{}

func (execRunner) run(ctx context.Context, spec processSpec) (*processResult, error) {
	runCtx := ctx
	if spec.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.timeout)
		defer cancel()
	}

	// #nosec G204 -- the binary is the resolved trusted kubectl path and
	// args come from validated descriptors.
	cmd := exec.CommandContext(runCtx, spec.binary, spec.args...)
	cmd.Env = append(os.Environ(), spec.env...)
	if len(spec.stdin) > 0 {
		cmd.Stdin = bytes.NewReader(spec.stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Force Wait to return shortly after the kill signal even if the
	// child leaked its output pipes to a grandchild.
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()

	res := &processResult{
		stdout: stdout.String(),
		stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.timedOut = true
		return res, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		// Spawn failure: the binary vanished between LookPath and Run, or
		// the OS refused the exec.
		return nil, err
	}

	res.exitCode = 0
	return res, nil
}
