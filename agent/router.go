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
	"fmt"

	"github.com/cloudwego/eino/compose"
)

// Graph node keys. Node names and actor tags share spellings on
// purpose: the router is an identity lookup guarded by an allow-list.
const (
	NodeResearcher = "researcher"
	NodeAnalyst    = "analyst"
	NodeWriter     = "writer"
)

// Transitions is the complete edge set of the pipeline, per node: the
// actors a node is permitted to hand off to, and where each one leads.
// Keeping every edge here (and nowhere else) makes the state machine
// auditable in one place.
var Transitions = map[string]map[Actor]string{
	NodeResearcher: {
		ActorAnalyst: NodeAnalyst,
		ActorWriter:  NodeWriter,
		ActorEnd:     compose.END,
	},
	NodeAnalyst: {
		ActorWriter: NodeWriter,
		ActorEnd:    compose.END,
	},
	NodeWriter: {
		ActorEnd: compose.END,
	},
}

// IsNode reports whether name is one of the pipeline's step nodes.
func IsNode(name string) bool {
	_, ok := Transitions[name]
	return ok
}

// RoutingError reports a current-actor tag with no edge out of the
// node that produced it.
type RoutingError struct {
	Node  string
	Actor Actor
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("no edge from node %q for actor %q", e.Node, e.Actor)
}

// Route resolves the successor of node for the given actor tag. It is
// pure: same inputs, same answer. An actor outside the node's table is
// a *RoutingError, never a silent fall-through.
func Route(node string, actor Actor) (string, error) {
	table, ok := Transitions[node]
	if !ok {
		return "", &RoutingError{Node: node, Actor: actor}
	}
	next, ok := table[actor]
	if !ok {
		return "", &RoutingError{Node: node, Actor: actor}
	}
	return next, nil
}
