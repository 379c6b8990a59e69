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

import "github.com/pkg/errors"

// Actor names the pipeline stage that must run next, or the terminal
// marker. The set is closed: every State carries exactly one of these
// four values, and the router rejects anything else.
type Actor string

const (
	ActorResearcher Actor = "researcher"
	ActorAnalyst    Actor = "analyst"
	ActorWriter     Actor = "writer"
	ActorEnd        Actor = "end"
)

// ParseActor validates s against the closed actor set.
func ParseActor(s string) (Actor, error) {
	switch Actor(s) {
	case ActorResearcher, ActorAnalyst, ActorWriter, ActorEnd:
		return Actor(s), nil
	}
	return "", errors.Errorf("unknown actor %q", s)
}
