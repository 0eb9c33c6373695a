// Package testdata provides shared mocks for tool handler tests.
package testdata

import (
	"context"
	"sync"
	"time"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
)

// ExecutorCall records one Execute invocation for assertions.
type ExecutorCall struct {
	Credential kubectl.Credential
	Descriptor kubectl.Descriptor
	Timeout    time.Duration
}

// MockExecutor is a kubectl.Executor that returns canned results and
// records every call. Safe for concurrent use.
type MockExecutor struct {
	mu    sync.Mutex
	calls []ExecutorCall

	// Result is returned from Execute when Err is nil.
	Result *kubectl.Result

	// Err, when set, is returned instead of a result.
	Err error

	// AvailableValue is returned from Available.
	AvailableValue bool
}

// NewMockExecutor returns a mock that reports success with the given stdout.
func NewMockExecutor(stdout string) *MockExecutor {
	exitCode := 0
	return &MockExecutor{
		Result: &kubectl.Result{
			Succeeded: true,
			Stdout:    stdout,
			ExitCode:  &exitCode,
		},
		AvailableValue: true,
	}
}

func (m *MockExecutor) Execute(ctx context.Context, cred kubectl.Credential, desc kubectl.Descriptor) (*kubectl.Result, error) {
	return m.ExecuteWithTimeout(ctx, cred, desc, 0)
}

func (m *MockExecutor) ExecuteWithTimeout(ctx context.Context, cred kubectl.Credential, desc kubectl.Descriptor, timeout time.Duration) (*kubectl.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ExecutorCall{Credential: cred, Descriptor: desc, Timeout: timeout})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockExecutor) Available() bool {
	return m.AvailableValue
}

// Calls returns a copy of the recorded calls.
func (m *MockExecutor) Calls() []ExecutorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ExecutorCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// LastCall returns the most recent call, or a zero value when none happened.
func (m *MockExecutor) LastCall() ExecutorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ExecutorCall{}
	}
	return m.calls[len(m.calls)-1]
}
