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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/researchflow/internal/remote"
)

func newTestTavily(url string, maxResults int) *Tavily {
	return NewTavily(TavilyConfig{
		APIKey:     "tvly-test",
		BaseURL:    url,
		MaxResults: maxResults,
		Retries:    2,
		Timeout:    time.Second,
		Backoff:    func(int) time.Duration { return 0 },
	})
}

func TestTavily_Search(t *testing.T) {
	var gotReq tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(tavilyResponse{Results: []Result{
			{Title: "result A", URL: "https://a", Content: "alpha"},
			{Title: "result B", URL: "https://b", Content: "beta"},
		}})
	}))
	defer srv.Close()

	results, err := newTestTavily(srv.URL, 3).Search(context.Background(), "latest AI advancements")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "result A", results[0].Title)
	assert.Equal(t, "tvly-test", gotReq.APIKey)
	assert.Equal(t, "latest AI advancements", gotReq.Query)
	assert.Equal(t, 3, gotReq.MaxResults)
}

func TestTavily_Search_CapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tavilyResponse{Results: []Result{
			{Title: "1"}, {Title: "2"}, {Title: "3"}, {Title: "4"},
		}})
	}))
	defer srv.Close()

	results, err := newTestTavily(srv.URL, 3).Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestTavily_Search_RetriesServerErrors(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(tavilyResponse{Results: []Result{{Title: "ok"}}})
	}))
	defer srv.Close()

	results, err := newTestTavily(srv.URL, 3).Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, attempts)
}

func TestTavily_Search_PermanentFailsFast(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestTavily(srv.URL, 3).Search(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var re *remote.Error
	require.True(t, errors.As(err, &re))
	assert.False(t, re.Retryable)
	assert.Equal(t, http.StatusBadRequest, re.Status)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "No results found", Summarize(nil))

	got := Summarize([]Result{
		{Title: "result A", URL: "https://a", Content: "alpha"},
		{Title: "result B", URL: "https://b", Content: "beta"},
	})
	assert.Contains(t, got, "Title: result A")
	assert.Contains(t, got, "Snippet: beta")
}
