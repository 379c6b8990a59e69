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

package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/cloudwego/researchflow/internal/remote"
	"github.com/cloudwego/researchflow/llm/log"
)

const serviceName = "llm"

var _ Generator = (*Client)(nil)

// Client turns a ChatModel into the Generator contract: one prompt in,
// one generated text out. Transient failures are retried with the
// shared backoff schedule; each attempt runs under its own timeout.
type Client struct {
	model   ChatModel
	retries int
	timeout time.Duration

	// backoff is the wait before attempt n. Overridable in tests.
	backoff func(attempt int) time.Duration
}

// NewClient wraps model. Only Retries and Timeout of cfg are consulted
// here (zero values default to 3 and 600s); the rest configured the
// model itself.
func NewClient(model ChatModel, cfg ModelConfig) *Client {
	retries := cfg.Retries
	if retries == 0 {
		retries = 3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 600 * time.Second
	}
	return &Client{
		model:   model,
		retries: retries,
		timeout: timeout,
		backoff: remote.Backoff,
	}
}

// Call implements Generator.
func (c *Client) Call(ctx context.Context, input string) (string, error) {
	log.Debug("[User] %s", input)
	inputMsgs := []*schema.Message{schema.UserMessage(input)}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Info("Retrying LLM call (attempt %d/%d)...", attempt+1, c.retries+1)
			time.Sleep(c.backoff(attempt))
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.model.Generate(attemptCtx, inputMsgs)
		cancel()
		if err == nil {
			log.Debug("[Assistant] %s", out.Content)
			return out.Content, nil
		}

		lastErr = err
		if !retryable(ctx, err) {
			return "", remote.Permanent(serviceName, err)
		}
		log.Warn("LLM call failed: %v", err)
	}
	return "", remote.Transient(serviceName, errors.Wrapf(lastErr, "giving up after %d attempts", c.retries+1))
}

// retryable treats every model failure as transient except explicit
// remote classifications and caller cancellation.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var re *remote.Error
	if errors.As(err, &re) {
		return re.Retryable
	}
	return true
}
