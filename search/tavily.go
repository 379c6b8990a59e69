// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudwego/researchflow/internal/remote"
	"github.com/cloudwego/researchflow/llm/log"
)

const (
	tavilyService = "tavily"
	tavilyBaseURL = "https://api.tavily.com"

	// DefaultMaxResults bounds every query unless overridden.
	DefaultMaxResults = 3
)

// TavilyConfig configures the Tavily adapter. Zero values fall back to
// DefaultMaxResults, 3 retries and a 15s request timeout.
type TavilyConfig struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Retries    int
	Timeout    time.Duration

	// Backoff overrides the retry wait schedule (tests).
	Backoff func(attempt int) time.Duration
}

// Tavily calls the Tavily search API. One POST per query; transient
// failures (transport errors, 429, 5xx) are retried with capped
// exponential backoff, everything else aborts.
type Tavily struct {
	apiKey     string
	baseURL    string
	maxResults int
	retries    int
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
}

var _ Client = (*Tavily)(nil)

func NewTavily(cfg TavilyConfig) *Tavily {
	if cfg.BaseURL == "" {
		cfg.BaseURL = tavilyBaseURL
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Backoff == nil {
		cfg.Backoff = remote.Backoff
	}
	return &Tavily{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		retries:    cfg.Retries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		backoff:    cfg.Backoff,
	}
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search implements Client.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	var lastErr error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			log.Info("Retrying search (attempt %d/%d)...", attempt+1, t.retries+1)
			time.Sleep(t.backoff(attempt))
		}
		results, err := t.search(ctx, query)
		if err == nil {
			return results, nil
		}
		if !remote.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
		log.Warn("Search failed: %v", err)
		lastErr = err
	}
	return nil, lastErr
}

func (t *Tavily) search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:     t.apiKey,
		Query:      query,
		MaxResults: t.maxResults,
	})
	if err != nil {
		return nil, remote.Permanent(tavilyService, errors.Wrap(err, "marshal request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, remote.Permanent(tavilyService, errors.Wrap(err, "build request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, remote.Transient(tavilyService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.Transient(tavilyService, errors.Wrap(err, "read response"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remote.FromStatus(tavilyService, resp.StatusCode, string(raw))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, remote.Permanent(tavilyService, errors.Wrap(err, "parse response"))
	}

	results := parsed.Results
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}
	return results, nil
}
