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

// Package config validates and collects the process environment before
// any network client is constructed.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// RequiredKey pairs a mandatory environment variable with the service
// it unlocks, for operator-facing error messages.
type RequiredKey struct {
	Key     string
	Service string
}

// RequiredKeys is the full set of environment variables that must be
// set to a non-empty value before startup may proceed. Order is
// significant: Check reports misses in this order.
var RequiredKeys = []RequiredKey{
	{Key: "TAVILY_API_KEY", Service: "Tavily Search API"},
	{Key: "CLAUDE_API_KEY", Service: "Anthropic Claude API"},
	{Key: "LANGFUSE_SECRET_KEY", Service: "Langfuse Tracing API"},
}

// MissingKeysError reports every required key that is unset or empty,
// so the operator can fix all of them in one pass.
type MissingKeysError struct {
	Missing []RequiredKey
}

func (e *MissingKeysError) Error() string {
	var sb strings.Builder
	sb.WriteString("missing required API keys:\n")
	for _, k := range e.Missing {
		fmt.Fprintf(&sb, "- %s (%s)\n", k.Service, k.Key)
	}
	sb.WriteString("\nPlease set these environment variables or add them to your .env file")
	return sb.String()
}

// Load reads a .env file from the working directory if one exists.
// A missing file is not an error.
func Load() {
	_ = godotenv.Load()
}

// Check verifies every entry of RequiredKeys and returns a
// *MissingKeysError naming all absent ones, or nil. It must run before
// any remote client is built so a misconfigured process fails without
// making partial network calls.
func Check() error {
	var missing []RequiredKey
	for _, k := range RequiredKeys {
		if os.Getenv(k.Key) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Missing: missing}
	}
	return nil
}

// Config carries everything main needs to assemble the pipeline.
// Optional fields fall back to defaults suited to the Claude API.
type Config struct {
	TavilyAPIKey string

	ModelAPIType string
	ModelAPIKey  string
	ModelName    string
	ModelBaseURL string

	LangfuseHost      string
	LangfusePublicKey string
	LangfuseSecretKey string
}

// FromEnv snapshots the environment. Call Check first; FromEnv does not
// validate.
func FromEnv() Config {
	c := Config{
		TavilyAPIKey:      os.Getenv("TAVILY_API_KEY"),
		ModelAPIType:      os.Getenv("API_TYPE"),
		ModelAPIKey:       os.Getenv("CLAUDE_API_KEY"),
		ModelName:         os.Getenv("MODEL_NAME"),
		ModelBaseURL:      os.Getenv("BASE_URL"),
		LangfuseHost:      os.Getenv("LANGFUSE_HOST"),
		LangfusePublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
		LangfuseSecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
	}
	if c.ModelAPIType == "" {
		c.ModelAPIType = "claude"
	}
	if c.ModelName == "" {
		c.ModelName = "claude-3-opus-20240229"
	}
	return c
}
