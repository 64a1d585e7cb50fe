// Package search implements the web search adapter backed by the Tavily
// search API, with client-side rate limiting and an optional Redis-backed
// result cache.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/llm/providers"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 5
	defaultTimeout    = 15 * time.Second
	searchPath        = "/search"
)

// Config holds the Tavily client configuration.
type Config struct {
	APIKey      string        `json:"api_key" yaml:"api_key"`
	BaseURL     string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxResults  int           `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	SearchDepth string        `json:"search_depth,omitempty" yaml:"search_depth,omitempty"` // "basic" or "advanced"
	Timeout     time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// RatePerMinute caps outgoing searches; 0 disables the limiter.
	RatePerMinute int `json:"rate_per_minute,omitempty" yaml:"rate_per_minute,omitempty"`
}

// Result is a single web search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Response is the typed result set returned for one query.
type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Client is the Tavily search adapter.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *ResultCache
	observer   llm.AdapterObserver
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache attaches a result cache to the client.
func WithCache(cache *ResultCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithObserver reports each live search's outcome to obs.
func WithObserver(obs llm.AdapterObserver) Option {
	return func(c *Client) { c.observer = obs }
}

// NewClient creates a Tavily client with defaults applied.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = "basic"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(zap.String("component", "tavily_client")),
	}
	if cfg.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// Search runs one web search. Cache hits bypass both the limiter and the
// network; cache failures degrade to a live search.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, query); ok {
			c.logger.Debug("search cache hit", zap.String("query", truncate(query, 80)))
			return cached, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search rate limiter: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.doSearch(ctx, query)
	if c.observer != nil {
		c.observer.AdapterRequest("tavily", err)
	}
	if err != nil {
		c.logger.Warn("search failed",
			zap.String("query", truncate(query, 80)),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("search completed",
		zap.String("query", truncate(query, 80)),
		zap.Int("results", len(resp.Results)),
		zap.Duration("duration", time.Since(start)))

	if c.cache != nil {
		c.cache.Set(ctx, query, resp)
	}
	return resp, nil
}

func (c *Client) doSearch(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:      c.cfg.APIKey,
		Query:       query,
		MaxResults:  c.cfg.MaxResults,
		SearchDepth: c.cfg.SearchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(searchPath), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(httpResp.Body)
		return nil, providers.MapHTTPError(httpResp.StatusCode, msg, "tavily")
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}
	if resp.Query == "" {
		resp.Query = query
	}
	return &resp, nil
}

// HealthCheck performs a minimal search to verify reachability and the
// configured key.
func (c *Client) HealthCheck(ctx context.Context) error {
	payload, err := json.Marshal(searchRequest{
		APIKey:      c.cfg.APIKey,
		Query:       "ping",
		MaxResults:  1,
		SearchDepth: "basic",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(searchPath), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := providers.ReadErrorMessage(resp.Body)
		return fmt.Errorf("tavily health check failed: status=%d msg=%s", resp.StatusCode, msg)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(c.cfg.BaseURL, "/"), path)
}

// truncate cuts on rune boundaries so logged queries stay valid UTF-8.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
