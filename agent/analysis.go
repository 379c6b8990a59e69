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

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/cloudwego/researchflow/llm"
	"github.com/cloudwego/researchflow/search"
)

// AnalysisStep asks the model to analyze the research data gathered by
// the previous step.
type AnalysisStep struct {
	gen llm.Generator
	tpl prompt.ChatTemplate
}

func NewAnalysisStep(gen llm.Generator) *AnalysisStep {
	return &AnalysisStep{
		gen: gen,
		tpl: prompt.FromMessages(schema.FString,
			schema.UserMessage("Analyze this data: {research_data}"),
		),
	}
}

// Name implements Step.
func (s *AnalysisStep) Name() string { return NodeAnalyst }

// Run implements Step.
func (s *AnalysisStep) Run(ctx context.Context, st *State) (*StepResult, error) {
	msgs, err := s.tpl.Format(ctx, map[string]any{
		"research_data": search.Summarize(st.ResearchData),
	})
	if err != nil {
		return nil, errors.Wrap(err, "format analysis prompt")
	}

	analysis, err := s.gen.Call(ctx, msgs[0].Content)
	if err != nil {
		return nil, err
	}

	return &StepResult{
		Messages:  []*schema.Message{schema.UserMessage(analysis)},
		NextActor: ActorWriter,
	}, nil
}
