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

// Package remote classifies failures of upstream service calls and
// provides the shared backoff schedule for retrying the transient ones.
package remote

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Error is a failure returned by an upstream service adapter.
// Retryable marks transient conditions (transport errors, throttling,
// server-side failures); everything else aborts immediately.
type Error struct {
	Service   string
	Status    int // HTTP status when known, 0 otherwise
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps a failure that is worth retrying, e.g. a transport
// error on an otherwise well-formed request.
func Transient(service string, err error) *Error {
	return &Error{Service: service, Retryable: true, Err: err}
}

// Permanent wraps a failure that retrying cannot fix.
func Permanent(service string, err error) *Error {
	return &Error{Service: service, Retryable: false, Err: err}
}

// FromStatus classifies a non-2xx HTTP response. Throttling and
// server-side statuses are transient, the rest are permanent.
func FromStatus(service string, status int, body string) *Error {
	return &Error{
		Service:   service,
		Status:    status,
		Retryable: status == http.StatusTooManyRequests || status >= 500,
		Err:       errors.Errorf("unexpected response: %s", body),
	}
}

// IsRetryable reports whether err (anywhere in its chain) is a
// transient remote failure.
func IsRetryable(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// Backoff returns the wait before retry attempt n (1-based):
// 1s, 2s, 4s... capped at 10 seconds.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := time.Duration(1<<uint(attempt-1)) * time.Second
	if wait > 10*time.Second {
		wait = 10 * time.Second
	}
	return wait
}
