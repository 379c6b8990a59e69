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

	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/cloudwego/researchflow/search"
)

// Step is one unit of pipeline work: it reads the shared state,
// performs exactly one external call, and proposes the partial update
// including its successor actor.
type Step interface {
	Name() string
	Run(ctx context.Context, st *State) (*StepResult, error)
}

// ResearchStep turns the most recent message into a search query and
// stores the raw results on the state.
type ResearchStep struct {
	search search.Client
}

func NewResearchStep(c search.Client) *ResearchStep {
	return &ResearchStep{search: c}
}

// Name implements Step.
func (s *ResearchStep) Name() string { return NodeResearcher }

// Run implements Step.
func (s *ResearchStep) Run(ctx context.Context, st *State) (*StepResult, error) {
	last := st.LastMessage()
	if last == nil {
		return nil, errors.New("research: state has no messages")
	}

	results, err := s.search.Search(ctx, last.Content)
	if err != nil {
		return nil, err
	}

	return &StepResult{
		Messages:     []*schema.Message{schema.UserMessage("Research data: " + search.Summarize(results))},
		ResearchData: results,
		NextActor:    ActorAnalyst,
	}, nil
}
