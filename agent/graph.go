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

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	"github.com/pkg/errors"
)

// Runner holds the compiled graph for the research → analysis →
// writing pipeline. One Runner serves one run at a time; the State it
// threads through the nodes is never shared between runs.
type Runner struct {
	graph    compose.Runnable[*State, *State]
	handlers []callbacks.Handler
}

// NewRunner wires the given steps into an eino graph. Every step
// becomes one node named after the step; after each node a branch
// consults Route with the freshly produced CurrentActor. The entry
// node is the researcher.
func NewRunner(ctx context.Context, steps []Step, handlers ...callbacks.Handler) (*Runner, error) {
	g := compose.NewGraph[*State, *State]()

	for _, step := range steps {
		node := compose.InvokableLambda(func(ctx context.Context, st *State) (*State, error) {
			result, err := step.Run(ctx, st)
			if err != nil {
				st.RecordFailure(step.Name(), err)
				return nil, errors.Wrapf(err, "step %s", step.Name())
			}
			st.Apply(step.Name(), result)
			return st, nil
		})
		if err := g.AddLambdaNode(step.Name(), node, compose.WithNodeName(step.Name())); err != nil {
			return nil, errors.Wrapf(err, "add node %s", step.Name())
		}
	}

	if err := g.AddEdge(compose.START, NodeResearcher); err != nil {
		return nil, errors.Wrap(err, "add entry edge")
	}

	for _, step := range steps {
		node := step.Name()
		targets := make(map[string]bool, len(Transitions[node]))
		for _, successor := range Transitions[node] {
			targets[successor] = true
		}
		branch := compose.NewGraphBranch(func(ctx context.Context, st *State) (string, error) {
			return Route(node, st.CurrentActor)
		}, targets)
		if err := g.AddBranch(node, branch); err != nil {
			return nil, errors.Wrapf(err, "add branch from %s", node)
		}
	}

	graph, err := g.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "compile graph")
	}
	return &Runner{graph: graph, handlers: handlers}, nil
}

// Run seeds a fresh State with the given input and executes the graph
// until a step hands off to ActorEnd. The terminal state is returned.
func (r *Runner) Run(ctx context.Context, seed string) (*State, error) {
	var opts []compose.Option
	if len(r.handlers) > 0 {
		opts = append(opts, compose.WithCallbacks(r.handlers...))
	}
	return r.graph.Invoke(ctx, NewState(seed), opts...)
}
