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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRecordingCaller returns a caller whose backoff sleeps are recorded
// instead of slept.
func newRecordingCaller(base time.Duration) (*Caller, *[]time.Duration) {
	var slept []time.Duration
	c := NewCaller(
		WithBaseDelay(base),
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return ctx.Err()
		}),
	)
	return c, &slept
}

func staticOp(status int, body string) Operation {
	return func(ctx context.Context) (Response, error) {
		return Response{Status: status, Body: []byte(body)}, nil
	}
}

func TestCall_SuccessFirstAttempt(t *testing.T) {
	c, slept := newRecordingCaller(time.Second)

	resp, err := c.Call(context.Background(), staticOp(200, `{"ok":true}`), 3)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Empty(t, *slept, "no backoff on immediate success")
}

func TestCall_PermanentServerErrorExhaustsAttempts(t *testing.T) {
	c, slept := newRecordingCaller(time.Second)

	attempts := 0
	op := func(ctx context.Context) (Response, error) {
		attempts++
		return Response{Status: 500}, nil
	}

	_, err := c.Call(context.Background(), op, 3)
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
	assert.Equal(t, KindExhausted, KindOf(err))

	// Backoff doubles from the base delay; no sleep after the last attempt.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestCall_RateLimitedThenSuccess(t *testing.T) {
	c, slept := newRecordingCaller(time.Second)

	attempts := 0
	op := func(ctx context.Context) (Response, error) {
		attempts++
		if attempts < 3 {
			return Response{Status: 429}, nil
		}
		return Response{Status: 200, Body: []byte("ok")}, nil
	}

	resp, err := c.Call(context.Background(), op, 5)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 3, attempts)
	assert.Len(t, *slept, 2, "one backoff per rate-limited attempt")
}

func TestCall_AuthErrorFailsImmediately(t *testing.T) {
	for _, status := range []int{401, 403} {
		c, slept := newRecordingCaller(time.Second)

		attempts := 0
		op := func(ctx context.Context) (Response, error) {
			attempts++
			return Response{Status: status}, nil
		}

		_, err := c.Call(context.Background(), op, 5)
		require.Error(t, err)
		assert.Equal(t, KindAuth, KindOf(err))
		assert.Equal(t, 1, attempts, "auth errors must not be retried")
		assert.Empty(t, *slept)

		var callErr *CallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, status, callErr.Status)
	}
}

func TestCall_ValidationErrorFailsImmediately(t *testing.T) {
	c, _ := newRecordingCaller(time.Second)

	attempts := 0
	op := func(ctx context.Context) (Response, error) {
		attempts++
		return Response{Status: 400}, nil
	}

	_, err := c.Call(context.Background(), op, 5)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 1, attempts)
}

func TestCall_TransportErrorRetried(t *testing.T) {
	c, _ := newRecordingCaller(time.Millisecond)

	attempts := 0
	op := func(ctx context.Context) (Response, error) {
		attempts++
		if attempts == 1 {
			return Response{}, errors.New("connection refused")
		}
		return Response{Status: 200}, nil
	}

	resp, err := c.Call(context.Background(), op, 3)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 2, attempts)
}

func TestCall_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCaller(
		WithBaseDelay(time.Second),
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := c.Call(ctx, staticOp(500, ""), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCall_InvalidMaxAttempts(t *testing.T) {
	c, _ := newRecordingCaller(time.Second)

	_, err := c.Call(context.Background(), staticOp(200, ""), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestKindOf_NonCallError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
