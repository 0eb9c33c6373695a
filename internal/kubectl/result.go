package kubectl

import "errors"

// FailureReason classifies why an execution did not succeed.
type FailureReason string

const (
	// ReasonValidation indicates the descriptor or credential was rejected
	// before any process was spawned.
	ReasonValidation FailureReason = "validation"

	// ReasonUntrustedCommand indicates an arbitrary command whose first
	// token was not the trusted kubectl binary.
	ReasonUntrustedCommand FailureReason = "untrusted_command"

	// ReasonExecutorUnavailable indicates the kubectl binary could not be
	// located, including after a one-time install attempt.
	ReasonExecutorUnavailable FailureReason = "executor_unavailable"

	// ReasonConnectivity indicates the pre-flight probe against the
	// cluster failed; the primary action was never attempted.
	ReasonConnectivity FailureReason = "connectivity_failed"

	// ReasonTimeout indicates the process was terminated because it did
	// not exit within the configured timeout.
	ReasonTimeout FailureReason = "timeout"

	// ReasonNonZeroExit indicates the process ran to completion with a
	// non-zero exit code.
	ReasonNonZeroExit FailureReason = "non_zero_exit"

	// ReasonIO indicates the ephemeral kubeconfig could not be created.
	ReasonIO FailureReason = "io_error"
)

// Result is the outcome of a single Execute call. It is never mutated
// after the call returns.
type Result struct {
	// Succeeded is true when the primary action exited with code zero.
	Succeeded bool

	// Stdout and Stderr are the captured output streams, decoded as text.
	// The executor performs no truncation.
	Stdout string
	Stderr string

	// ExitCode is the process exit code, nil when no process ran to
	// completion (validation failures, timeouts, spawn errors).
	ExitCode *int

	// FailureReason is empty on success.
	FailureReason FailureReason
}

// Sentinel errors for the failure taxonomy. Execute returns these (or a
// *ValidationError) for failures that occur before or around the primary
// action; run outcomes such as non-zero exits are reported via Result only.
var (
	// ErrUntrustedCommand is returned when an arbitrary command does not
	// start with the trusted kubectl binary name.
	ErrUntrustedCommand = errors.New("only kubectl commands are allowed")

	// ErrExecutorUnavailable is returned when kubectl cannot be located
	// and installation was not possible.
	ErrExecutorUnavailable = errors.New("kubectl binary is not available")
)

// ValidationError reports a malformed or missing descriptor field.
// No process is spawned when a ValidationError is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid descriptor: " + e.Msg
	}
	return "invalid " + e.Field + ": " + e.Msg
}

// IsValidationError reports whether err is a descriptor or credential
// validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func failure(reason FailureReason, stderr string) *Result {
	return &Result{FailureReason: reason, Stderr: stderr}
}
