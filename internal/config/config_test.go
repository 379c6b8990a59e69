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

package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAll(t *testing.T) {
	t.Helper()
	for _, k := range RequiredKeys {
		t.Setenv(k.Key, "test-value")
	}
}

func TestCheck_AllKeysSet(t *testing.T) {
	setAll(t)
	require.NoError(t, Check())
}

func TestCheck_ReportsEveryMissingKey(t *testing.T) {
	setAll(t)
	// Unset search and tracing only; the LLM key stays set.
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("LANGFUSE_SECRET_KEY", "")

	err := Check()
	require.Error(t, err)

	var missing *MissingKeysError
	require.True(t, errors.As(err, &missing))
	require.Len(t, missing.Missing, 2)
	assert.Equal(t, "TAVILY_API_KEY", missing.Missing[0].Key)
	assert.Equal(t, "LANGFUSE_SECRET_KEY", missing.Missing[1].Key)

	msg := err.Error()
	assert.Contains(t, msg, "Tavily Search API (TAVILY_API_KEY)")
	assert.Contains(t, msg, "Langfuse Tracing API (LANGFUSE_SECRET_KEY)")
	assert.NotContains(t, msg, "CLAUDE_API_KEY")
}

func TestCheck_EmptyValueCountsAsMissing(t *testing.T) {
	setAll(t)
	t.Setenv("CLAUDE_API_KEY", "")

	err := Check()
	require.Error(t, err)

	var missing *MissingKeysError
	require.True(t, errors.As(err, &missing))
	require.Len(t, missing.Missing, 1)
	assert.Equal(t, "Anthropic Claude API", missing.Missing[0].Service)
}

func TestFromEnv_Defaults(t *testing.T) {
	setAll(t)
	t.Setenv("API_TYPE", "")
	t.Setenv("MODEL_NAME", "")

	cfg := FromEnv()
	assert.Equal(t, "claude", cfg.ModelAPIType)
	assert.Equal(t, "claude-3-opus-20240229", cfg.ModelName)
	assert.Equal(t, "test-value", cfg.TavilyAPIKey)
}
