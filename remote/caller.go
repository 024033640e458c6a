// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Response is the outcome of one successful request: an HTTP status and the
// raw body. Decoding is left to the service adapter.
type Response struct {
	Status int
	Body   []byte
}

// Operation performs a single attempt of a remote request.
type Operation func(ctx context.Context) (Response, error)

// Caller executes operations with bounded retries and error classification.
type Caller struct {
	baseDelay time.Duration
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithBaseDelay sets the base backoff delay (doubles on each retry).
// Default is 1 second.
func WithBaseDelay(d time.Duration) CallerOption {
	return func(c *Caller) {
		c.baseDelay = d
	}
}

// WithCallerLogger sets a custom logger.
// Default is slog.Default().
func WithCallerLogger(logger *slog.Logger) CallerOption {
	return func(c *Caller) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithSleeper replaces the backoff sleeper, so tests can record delays
// instead of waiting them out.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) CallerOption {
	return func(c *Caller) {
		c.sleep = sleep
	}
}

// NewCaller creates a caller with the given options.
func NewCaller(opts ...CallerOption) *Caller {
	c := &Caller{
		baseDelay: 1 * time.Second,
		logger:    slog.Default().With("component", "remote-caller"),
		sleep:     sleepWithContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Call runs op until it succeeds or the attempt budget runs out.
//
// Outcomes are classified by status:
//   - 2xx: success, the response is returned.
//   - 429: backoff, retry; counts against maxAttempts.
//   - 401/403: *CallError with KindAuth, no retry.
//   - any other 4xx: *CallError with KindValidation, no retry.
//   - 5xx or transport error: backoff, retry; counts against maxAttempts.
//
// When the budget is exhausted the returned error has KindExhausted and
// carries the last observed status and cause.
func (c *Caller) Call(ctx context.Context, op Operation, maxAttempts int) (Response, error) {
	if maxAttempts <= 0 {
		return Response{}, ErrInvalidMaxAttempts
	}

	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		default:
		}

		resp, err := op(ctx)
		if err != nil {
			lastStatus = 0
			lastErr = err
			c.logger.Debug("transport failure, will retry",
				"attempt", attempt, "maxAttempts", maxAttempts, "err", err)
		} else {
			switch {
			case resp.Status >= 200 && resp.Status < 300:
				if attempt > 1 {
					c.logger.Debug("call succeeded after retry", "attempt", attempt)
				}
				return resp, nil

			case resp.Status == http.StatusTooManyRequests:
				lastStatus = resp.Status
				lastErr = fmt.Errorf("rate limited")
				c.logger.Debug("rate limited, will retry",
					"attempt", attempt, "maxAttempts", maxAttempts)

			case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden:
				return resp, &CallError{Kind: KindAuth, Status: resp.Status}

			case resp.Status >= 400 && resp.Status < 500:
				return resp, &CallError{Kind: KindValidation, Status: resp.Status}

			default:
				lastStatus = resp.Status
				lastErr = fmt.Errorf("server error")
				c.logger.Debug("server error, will retry",
					"attempt", attempt, "maxAttempts", maxAttempts, "status", resp.Status)
			}
		}

		// Don't sleep after the last attempt
		if attempt == maxAttempts {
			break
		}

		// Exponential backoff: baseDelay * 2^(attempt-1)
		delay := c.baseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		if err := c.sleep(ctx, delay); err != nil {
			return Response{}, err
		}
	}

	return Response{}, &CallError{Kind: KindExhausted, Status: lastStatus, Err: lastErr}
}
