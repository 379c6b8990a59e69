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
)

// WritingStep produces the final response from the analysis and ends
// the run.
type WritingStep struct {
	gen llm.Generator
	tpl prompt.ChatTemplate
}

func NewWritingStep(gen llm.Generator) *WritingStep {
	return &WritingStep{
		gen: gen,
		tpl: prompt.FromMessages(schema.FString,
			schema.UserMessage("Generate final response using: {draft}"),
		),
	}
}

// Name implements Step.
func (s *WritingStep) Name() string { return NodeWriter }

// Run implements Step.
func (s *WritingStep) Run(ctx context.Context, st *State) (*StepResult, error) {
	last := st.LastMessage()
	if last == nil {
		return nil, errors.New("writing: state has no messages")
	}

	msgs, err := s.tpl.Format(ctx, map[string]any{"draft": last.Content})
	if err != nil {
		return nil, errors.Wrap(err, "format writing prompt")
	}

	final, err := s.gen.Call(ctx, msgs[0].Content)
	if err != nil {
		return nil, err
	}

	// The generated message goes into the history verbatim, as the
	// model's own turn.
	return &StepResult{
		Messages:  []*schema.Message{schema.AssistantMessage(final, nil)},
		NextActor: ActorEnd,
	}, nil
}
