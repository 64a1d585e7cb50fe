package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/llm/providers"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func completionBody(content string) providers.OpenAICompatResponse {
	return providers.OpenAICompatResponse{
		ID:    "chatcmpl-1",
		Model: defaultModel,
		Choices: []providers.OpenAICompatChoice{
			{
				Index:        0,
				FinishReason: "stop",
				Message:      providers.OpenAICompatMessage{Role: "assistant", Content: content},
			},
		},
		Usage:   &providers.OpenAICompatUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		Created: 1700000000,
	}
}

func TestProvider_Completion(t *testing.T) {
	var got providers.OpenAICompatRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(completionBody("hello from groq"))
	})

	p := New(Config{APIKey: "gsk-test", BaseURL: srv.URL}, nil)

	resp, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "be brief"},
			{Role: llm.RoleUser, Content: "hi"},
		},
		MaxTokens: 64,
	})
	require.NoError(t, err)

	assert.Equal(t, defaultModel, got.Model, "default model applied when the request omits one")
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, 64, got.MaxTokens)

	assert.Equal(t, "groq", resp.Provider)
	assert.Equal(t, "hello from groq", resp.FirstContent())
	assert.Equal(t, 30, resp.Usage.TotalTokens)
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestProvider_Completion_ModelOverride(t *testing.T) {
	var got providers.OpenAICompatRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(completionBody("ok"))
	})

	p := New(Config{APIKey: "k", BaseURL: srv.URL, Model: "llama-3.1-8b-instant"}, nil)
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model, "request model wins over the configured default")
}

func TestProvider_Completion_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  llm.ErrorCode
		retryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`, llm.ErrUnauthorized, false},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"rate limit reached"}}`, llm.ErrRateLimited, true},
		{"quota", http.StatusBadRequest, `{"error":{"message":"you exceeded your quota"}}`, llm.ErrQuotaExceeded, false},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"unknown field"}}`, llm.ErrInvalidRequest, false},
		{"unavailable", http.StatusServiceUnavailable, `{"error":{"message":"try again"}}`, llm.ErrUpstreamError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil)
			_, err := p.Completion(context.Background(), &llm.ChatRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)

			var llmErr *llm.Error
			require.True(t, errors.As(err, &llmErr))
			assert.Equal(t, tt.wantCode, llmErr.Code)
			assert.Equal(t, tt.retryable, llmErr.Retryable)
			assert.Equal(t, "groq", llmErr.Provider)
		})
	}
}

type recordingObserver struct {
	adapters []string
	errs     []error
}

func (o *recordingObserver) AdapterRequest(adapter string, err error) {
	o.adapters = append(o.adapters, adapter)
	o.errs = append(o.errs, err)
}

func TestProvider_Completion_ReportsAdapterOutcome(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionBody("ok"))
	})

	obs := &recordingObserver{}
	p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil, WithObserver(obs))

	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	require.Len(t, obs.adapters, 1)
	assert.Equal(t, "groq", obs.adapters[0])
	assert.NoError(t, obs.errs[0])
}

func TestProvider_Completion_ReportsAdapterFailure(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"down"}}`))
	})

	obs := &recordingObserver{}
	p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil, WithObserver(obs))

	_, err := p.Complete(context.Background(), "sys", "user")
	require.Error(t, err)

	require.Len(t, obs.errs, 1, "Complete reports through the underlying completion")
	assert.Error(t, obs.errs[0])
}

func TestProvider_Complete(t *testing.T) {
	var got providers.OpenAICompatRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(completionBody("generated text"))
	})

	p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	text, err := p.Complete(context.Background(), "you are terse", "say hi")
	require.NoError(t, err)

	assert.Equal(t, "generated text", text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "you are terse", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "say hi", got.Messages[1].Content)
}

func TestProvider_Complete_NoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(providers.OpenAICompatResponse{ID: "x", Model: defaultModel})
	})

	p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := p.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestProvider_HealthCheck(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	p := New(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Greater(t, status.Latency.Nanoseconds(), int64(0))
}

func TestProvider_HealthCheck_Unhealthy(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	})

	p := New(Config{APIKey: "bad", BaseURL: srv.URL}, nil)
	status, err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
}
