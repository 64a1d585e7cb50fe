package mocks

import (
	"context"
	"sync"

	"github.com/BaSui01/researchflow/search"
)

// MockSearcher is a test double for the agent.Searcher surface.
type MockSearcher struct {
	mu sync.Mutex

	response *search.Response
	err      error
	queries  []string
}

// NewMockSearcher creates a searcher returning one fixed result.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{
		response: &search.Response{
			Results: []search.Result{
				{Title: "Mock result", URL: "https://example.com", Content: "mock content", Score: 0.9},
			},
		},
	}
}

// WithResponse sets the fixed response.
func (m *MockSearcher) WithResponse(resp *search.Response) *MockSearcher {
	m.response = resp
	return m
}

// WithError makes every call fail with err.
func (m *MockSearcher) WithError(err error) *MockSearcher {
	m.err = err
	return m
}

func (m *MockSearcher) Search(ctx context.Context, query string) (*search.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

// Queries returns a copy of the recorded queries.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// CallCount returns the number of Search invocations.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}
