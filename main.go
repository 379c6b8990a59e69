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

// Command researchflow runs a three-agent pipeline: a researcher
// searches the web for the query, an analyst interprets the findings,
// and a writer produces the final response.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cloudwego/researchflow/agent"
	"github.com/cloudwego/researchflow/internal/config"
	"github.com/cloudwego/researchflow/llm"
	"github.com/cloudwego/researchflow/llm/log"
	"github.com/cloudwego/researchflow/search"
	"github.com/cloudwego/researchflow/trace"
	"github.com/cloudwego/researchflow/version"
)

func main() {
	query := flag.String("query", "Research latest AI advancements", "research request to run the pipeline on")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}
	if *verbose {
		log.SetLogLevel(log.DebugLevel)
	}

	// Validate the environment before any network client exists, so a
	// misconfigured process dies without partial remote calls.
	config.Load()
	if err := config.Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.FromEnv()

	ctx := context.Background()

	searcher := search.NewTavily(search.TavilyConfig{
		APIKey:     cfg.TavilyAPIKey,
		MaxResults: search.DefaultMaxResults,
	})

	model, err := llm.NewChatModel(ctx, llm.ModelConfig{
		Name:      "default",
		APIType:   llm.NewModelType(cfg.ModelAPIType),
		APIKey:    cfg.ModelAPIKey,
		ModelName: cfg.ModelName,
		BaseURL:   cfg.ModelBaseURL,
	})
	if err != nil {
		log.Error("init chat model: %v", err)
		os.Exit(1)
	}
	gen := llm.NewClient(model, llm.ModelConfig{})

	tracer := trace.New(cfg.LangfuseHost, cfg.LangfusePublicKey, cfg.LangfuseSecretKey)

	runner, err := agent.NewRunner(ctx, []agent.Step{
		agent.NewResearchStep(searcher),
		agent.NewAnalysisStep(gen),
		agent.NewWritingStep(gen),
	}, tracer.Handler())
	if err != nil {
		log.Error("build pipeline: %v", err)
		os.Exit(1)
	}

	tracer.StartRun("researchflow", *query)
	final, err := runner.Run(ctx, *query)
	tracer.EndRun(err)
	tracer.Flush()
	if err != nil {
		log.Error("run pipeline: %v", err)
		os.Exit(1)
	}

	if last := final.LastMessage(); last != nil {
		fmt.Println(last.Content)
	}
}
