// Package mocks provides test doubles for the external adapters: a mock
// text-generation completer and a mock search client, both with fixed
// responses, error injection, and call recording.
package mocks

import (
	"context"
	"sync"
)

// CompleterCall records one Complete invocation.
type CompleterCall struct {
	SystemPrompt string
	UserPrompt   string
}

// MockCompleter is a test double for llm.Completer.
type MockCompleter struct {
	mu sync.Mutex

	response     string
	err          error
	completeFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	calls        []CompleterCall
}

// NewMockCompleter creates a completer returning a fixed response.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{response: "mock completion"}
}

// WithResponse sets the fixed response text.
func (m *MockCompleter) WithResponse(text string) *MockCompleter {
	m.response = text
	return m
}

// WithError makes every call fail with err.
func (m *MockCompleter) WithError(err error) *MockCompleter {
	m.err = err
	return m
}

// WithCompleteFunc installs a custom handler, overriding the fixed
// response and error.
func (m *MockCompleter) WithCompleteFunc(fn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)) *MockCompleter {
	m.completeFunc = fn
	return m
}

func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CompleterCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	fn := m.completeFunc
	resp, err := m.response, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, systemPrompt, userPrompt)
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockCompleter) Calls() []CompleterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompleterCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Complete invocations.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
