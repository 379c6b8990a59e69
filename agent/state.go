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
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/cloudwego/researchflow/search"
)

// State is the single record threaded through one pipeline run. It is
// owned exclusively by the runner for the duration of the run and
// mutated only via Apply; it is discarded when the run ends.
type State struct {
	// Messages is append-only across steps; insertion order is the
	// conversation order.
	Messages []*schema.Message
	// CurrentActor names the next step to run, or ActorEnd.
	CurrentActor Actor
	// ResearchData holds the raw search results, overwritten only by
	// the research step.
	ResearchData []search.Result

	// History is an immutable log of step executions for this run.
	History []StepRecord
}

// NewState seeds a run: one user message, researcher up first.
func NewState(seed string) *State {
	return &State{
		Messages:     []*schema.Message{schema.UserMessage(seed)},
		CurrentActor: ActorResearcher,
	}
}

// LastMessage returns the most recent message, or nil on an empty
// history (which no step ever sees: runs start with the seed message).
func (s *State) LastMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// StepResult is the partial update one step proposes: messages to
// append, the successor actor, and optionally new research data.
type StepResult struct {
	Messages     []*schema.Message
	NextActor    Actor
	ResearchData []search.Result
}

// Keys lists the state fields this result touches, in the order the
// diagnostic output prints them.
func (r *StepResult) Keys() []string {
	keys := []string{"messages"}
	if r.ResearchData != nil {
		keys = append(keys, "research_data")
	}
	return append(keys, "current_actor")
}

// Apply merges a step result produced by stepName: messages are
// appended (never replaced), CurrentActor is overwritten, ResearchData
// is overwritten only when the result carries any. A record is added to
// History.
func (s *State) Apply(stepName string, r *StepResult) {
	s.Messages = append(s.Messages, r.Messages...)
	s.CurrentActor = r.NextActor
	if r.ResearchData != nil {
		s.ResearchData = r.ResearchData
	}
	s.History = append(s.History, StepRecord{
		StepName: stepName,
		Status:   StepOK,
		Keys:     r.Keys(),
		Time:     time.Now(),
	})
}

// RecordFailure logs a failed step execution.
func (s *State) RecordFailure(stepName string, err error) {
	s.History = append(s.History, StepRecord{
		StepName: stepName,
		Status:   StepFailed,
		Error:    err.Error(),
		Time:     time.Now(),
	})
}

// StepRecord is an immutable log entry for one step execution.
type StepRecord struct {
	StepName string
	Status   StepStatus
	Error    string
	Keys     []string
	Time     time.Time
}

// StepStatus is the outcome of a step run.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)
