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

// Package search wraps external web-search APIs behind one narrow
// operation: a text query in, a bounded list of results out.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one search hit. Fields beyond these are dropped at the
// adapter boundary; downstream code only ever serializes results into
// a text summary.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Client is the search-adapter contract consumed by the pipeline.
type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Summarize renders results into the text block embedded in prompt and
// message content.
func Summarize(results []Result) string {
	if len(results) == 0 {
		return "No results found"
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s", r.Title, r.URL, r.Content))
	}
	return strings.Join(parts, "\n\n")
}
