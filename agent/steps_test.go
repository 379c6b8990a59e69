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

package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/cloudwego/researchflow/search"
)

// stubSearch records queries and returns fixed results.
type stubSearch struct {
	results []search.Result
	err     error
	queries []string
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

// stubGen records prompts and returns a fixed reply.
type stubGen struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGen) Call(ctx context.Context, input string) (string, error) {
	g.prompts = append(g.prompts, input)
	return g.reply, g.err
}

func TestResearchStep(t *testing.T) {
	searcher := &stubSearch{results: []search.Result{
		{Title: "result A", URL: "https://a", Content: "alpha"},
		{Title: "result B", URL: "https://b", Content: "beta"},
	}}
	step := NewResearchStep(searcher)
	st := NewState("Research latest AI advancements")

	res, err := step.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(searcher.queries) != 1 || searcher.queries[0] != "Research latest AI advancements" {
		t.Errorf("query: got %v", searcher.queries)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("messages: got %d", len(res.Messages))
	}
	msg := res.Messages[0].Content
	if !strings.HasPrefix(msg, "Research data: ") {
		t.Errorf("message should carry the research label, got %q", msg)
	}
	if !strings.Contains(msg, "result A") || !strings.Contains(msg, "result B") {
		t.Errorf("message should name both results, got %q", msg)
	}
	if len(res.ResearchData) != 2 || res.ResearchData[0].Title != "result A" || res.ResearchData[1].Title != "result B" {
		t.Errorf("research data: got %v", res.ResearchData)
	}
	if res.NextActor != ActorAnalyst {
		t.Errorf("next actor: got %q", res.NextActor)
	}
}

func TestResearchStep_SearchFailureAborts(t *testing.T) {
	searcher := &stubSearch{err: errors.New("api unreachable")}
	step := NewResearchStep(searcher)

	_, err := step.Run(context.Background(), NewState("q"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalysisStep(t *testing.T) {
	gen := &stubGen{reply: "the analysis"}
	step := NewAnalysisStep(gen)

	st := NewState("seed")
	st.ResearchData = []search.Result{{Title: "result A", URL: "https://a", Content: "alpha"}}

	res, err := step.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("prompts: got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.HasPrefix(prompt, "Analyze this data: ") {
		t.Errorf("prompt: got %q", prompt)
	}
	if !strings.Contains(prompt, "result A") {
		t.Errorf("prompt should embed the research data, got %q", prompt)
	}
	if len(res.Messages) != 1 || res.Messages[0].Content != "the analysis" {
		t.Errorf("messages: got %v", res.Messages)
	}
	if res.Messages[0].Role != schema.User {
		t.Errorf("analysis lands as a user message, got %q", res.Messages[0].Role)
	}
	if res.NextActor != ActorWriter {
		t.Errorf("next actor: got %q", res.NextActor)
	}
}

func TestWritingStep(t *testing.T) {
	gen := &stubGen{reply: "the final response"}
	step := NewWritingStep(gen)

	st := NewState("seed")
	st.Messages = append(st.Messages, schema.UserMessage("the analysis"))

	res, err := step.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(gen.prompts) != 1 || gen.prompts[0] != "Generate final response using: the analysis" {
		t.Errorf("prompt: got %v", gen.prompts)
	}
	if len(res.Messages) != 1 || res.Messages[0].Content != "the final response" {
		t.Errorf("messages: got %v", res.Messages)
	}
	if res.Messages[0].Role != schema.Assistant {
		t.Errorf("final message is the model's own turn, got role %q", res.Messages[0].Role)
	}
	if res.NextActor != ActorEnd {
		t.Errorf("next actor: got %q", res.NextActor)
	}
}

func TestWritingStep_GeneratorFailureAborts(t *testing.T) {
	gen := &stubGen{err: errors.New("model overloaded")}
	step := NewWritingStep(gen)

	_, err := step.Run(context.Background(), NewState("seed"))
	if err == nil {
		t.Fatal("expected error")
	}
}
