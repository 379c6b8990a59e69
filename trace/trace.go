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

// Package trace reports one Langfuse trace per pipeline run and one
// span per graph node, attached to the graph as an eino callbacks
// handler so the steps themselves carry no tracing code. Without a
// Langfuse host and public key it degrades to log output only.
package trace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino-ext/libs/acl/langfuse"
	"github.com/cloudwego/eino/callbacks"
	"github.com/google/uuid"

	"github.com/cloudwego/researchflow/agent"
	"github.com/cloudwego/researchflow/llm/log"
)

type Tracer struct {
	client  langfuse.Langfuse
	enabled bool
	traceID string
	name    string
	start   time.Time
}

// New builds a tracer. All three values must be set for spans to reach
// Langfuse; otherwise the tracer only logs.
func New(host, publicKey, secretKey string) *Tracer {
	enabled := host != "" && publicKey != "" && secretKey != ""
	var client langfuse.Langfuse
	if enabled {
		client = langfuse.NewLangfuse(host, publicKey, secretKey)
	}
	return &Tracer{client: client, enabled: enabled}
}

// StartRun opens the trace for one pipeline run.
func (t *Tracer) StartRun(name, input string) {
	t.name = name
	t.start = time.Now()
	if !t.enabled {
		log.Info("trace start: %s", name)
		return
	}
	t.traceID = uuid.New().String()
	inputJSON, _ := sonic.MarshalString(input)
	_, err := t.client.CreateTrace(&langfuse.TraceEventBody{
		BaseEventBody: langfuse.BaseEventBody{
			ID:   t.traceID,
			Name: name,
		},
		TimeStamp: time.Now(),
		Input:     inputJSON,
	})
	if err != nil {
		log.Warn("create trace: %v", err)
	}
}

// EndRun closes the trace, recording duration and terminal error.
func (t *Tracer) EndRun(runErr error) {
	duration := time.Since(t.start)
	if !t.enabled {
		if runErr != nil {
			log.Info("trace end: %s (%v): %v", t.name, duration, runErr)
		} else {
			log.Info("trace end: %s (%v)", t.name, duration)
		}
		return
	}
	metadata := map[string]any{"duration_ms": duration.Milliseconds()}
	if runErr != nil {
		metadata["error"] = runErr.Error()
	}
	_, err := t.client.CreateEvent(&langfuse.EventEventBody{
		BaseObservationEventBody: langfuse.BaseObservationEventBody{
			BaseEventBody: langfuse.BaseEventBody{
				Name:     t.name + "_completed",
				MetaData: metadata,
			},
			TraceID:   t.traceID,
			StartTime: time.Now(),
		},
	})
	if err != nil {
		log.Warn("end trace: %v", err)
	}
}

// Flush drains buffered events to the Langfuse backend.
func (t *Tracer) Flush() {
	if t.enabled {
		t.client.Flush()
	}
}

// Handler adapts the tracer to eino's callback interface. Only the
// pipeline's step nodes are traced; graph-level callbacks pass through.
func (t *Tracer) Handler() callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(t.onStart).
		OnEndFn(t.onEnd).
		OnErrorFn(t.onError).
		Build()
}

type spanCtxKey struct{}

type span struct {
	id    string
	name  string
	start time.Time
}

func (t *Tracer) onStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if info == nil || !agent.IsNode(info.Name) {
		return ctx
	}
	sp := &span{id: uuid.New().String(), name: info.Name, start: time.Now()}
	if t.enabled {
		inputJSON, _ := sonic.MarshalString(stateSummary(input))
		_, err := t.client.CreateSpan(&langfuse.SpanEventBody{
			BaseObservationEventBody: langfuse.BaseObservationEventBody{
				BaseEventBody: langfuse.BaseEventBody{
					ID:   sp.id,
					Name: sp.name,
				},
				TraceID:   t.traceID,
				Input:     inputJSON,
				StartTime: sp.start,
			},
		})
		if err != nil {
			log.Warn("create span: %v", err)
		}
	} else {
		log.Debug("span start: %s", sp.name)
	}
	return context.WithValue(ctx, spanCtxKey{}, sp)
}

func (t *Tracer) onEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	sp, ok := ctx.Value(spanCtxKey{}).(*span)
	if !ok {
		return ctx
	}
	if t.enabled {
		outputJSON, _ := sonic.MarshalString(stateSummary(output))
		err := t.client.EndSpan(&langfuse.SpanEventBody{
			BaseObservationEventBody: langfuse.BaseObservationEventBody{
				BaseEventBody: langfuse.BaseEventBody{
					ID:       sp.id,
					MetaData: map[string]any{"duration_ms": time.Since(sp.start).Milliseconds()},
				},
				TraceID: t.traceID,
				Output:  outputJSON,
			},
			EndTime: time.Now(),
		})
		if err != nil {
			log.Warn("end span: %v", err)
		}
	} else {
		log.Debug("span end: %s (%v)", sp.name, time.Since(sp.start))
	}
	if st, ok := output.(*agent.State); ok {
		printStepKeys(st)
	}
	return ctx
}

func (t *Tracer) onError(ctx context.Context, info *callbacks.RunInfo, cbErr error) context.Context {
	sp, ok := ctx.Value(spanCtxKey{}).(*span)
	if !ok {
		return ctx
	}
	if t.enabled {
		err := t.client.EndSpan(&langfuse.SpanEventBody{
			BaseObservationEventBody: langfuse.BaseObservationEventBody{
				BaseEventBody: langfuse.BaseEventBody{
					ID:       sp.id,
					MetaData: map[string]any{"error": cbErr.Error()},
				},
				TraceID: t.traceID,
			},
			EndTime: time.Now(),
		})
		if err != nil {
			log.Warn("end span: %v", err)
		}
	} else {
		log.Debug("span error: %s: %v", sp.name, cbErr)
	}
	return ctx
}

// stateSummary compacts a pipeline state for span payloads; anything
// else is passed through for sonic to serialize.
func stateSummary(v any) any {
	st, ok := v.(*agent.State)
	if !ok {
		return v
	}
	return map[string]any{
		"messages":      len(st.Messages),
		"current_actor": string(st.CurrentActor),
		"results":       len(st.ResearchData),
	}
}

// printStepKeys emits the diagnostic per-step output: the state keys
// the step produced, then a visual divider.
func printStepKeys(st *agent.State) {
	if len(st.History) == 0 {
		return
	}
	rec := st.History[len(st.History)-1]
	fmt.Printf("Current state: %s %v\n", rec.StepName, rec.Keys)
	fmt.Println(strings.Repeat("---", 20))
}
