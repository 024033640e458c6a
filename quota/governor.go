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

package quota

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSafetyMargin is added to every computed wait so the re-check lands
// strictly after the blocking grant has aged out of its window.
const DefaultSafetyMargin = 1 * time.Second

// Window describes one rolling quota window.
type Window struct {
	// Name identifies the window in logs and usage reports (e.g. "hourly").
	Name string

	// Length is the rolling interval the capacity applies to.
	Length time.Duration

	// Capacity is the maximum number of grants inside Length.
	Capacity int

	// Hard marks a window with no recovery path worth waiting for within a
	// run (e.g. a daily or monthly cap). When a hard window fills up,
	// WaitAndReserve returns ErrExhausted instead of blocking.
	Hard bool
}

// WindowUsage reports the current utilization of one window.
type WindowUsage struct {
	Name     string
	Used     int
	Capacity int
}

// windowState pairs a window's configuration with its grant history.
// Grants older than the window length are purged lazily before each check.
type windowState struct {
	Window
	grants []time.Time
}

// Governor grants or denies outbound calls against a set of quota windows
// and a minimum inter-call spacing. It is safe for concurrent use; a single
// mutex serializes every check, grant and wait.
type Governor struct {
	mu          sync.Mutex
	windows     []*windowState
	minInterval time.Duration
	margin      time.Duration
	lastGrant   time.Time
	issued      int
	logger      *slog.Logger

	// Injected clock so tests can simulate time without real sleeping.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Governor.
type Option func(*Governor)

// WithMinInterval sets the minimum spacing between consecutive grants.
// Zero (the default) disables spacing enforcement.
func WithMinInterval(d time.Duration) Option {
	return func(g *Governor) {
		g.minInterval = d
	}
}

// WithSafetyMargin sets the extra delay added to computed waits.
func WithSafetyMargin(d time.Duration) Option {
	return func(g *Governor) {
		g.margin = d
	}
}

// WithClock replaces the governor's time source and sleeper.
// The sleep function should advance whatever clock now reads from.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Governor) {
		g.now = now
		g.sleep = sleep
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Governor) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGovernor creates a governor for the given windows.
// A governor with no windows and no minimum interval grants every call.
func NewGovernor(windows []Window, opts ...Option) *Governor {
	g := &Governor{
		margin: DefaultSafetyMargin,
		logger: slog.Default().With("component", "quota-governor"),
		now:    time.Now,
		sleep:  sleepWithContext,
	}
	for _, w := range windows {
		g.windows = append(g.windows, &windowState{Window: w})
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// sleepWithContext is the default sleeper: a timer that also observes
// context cancellation.
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

// TryReserve grants a call slot if every window has room and the minimum
// spacing has elapsed. A grant consumes the slot immediately, so two racing
// callers can never overrun a window. Returns ErrExhausted when a hard
// window is full, ErrDenied when waiting would eventually succeed.
func (g *Governor) TryReserve() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.purge(now)

	if full := g.fullWindow(); full != nil {
		if full.Hard {
			return fmt.Errorf("%w: window %q (%d/%d)", ErrExhausted, full.Name, len(full.grants), full.Capacity)
		}
		return fmt.Errorf("%w: window %q full", ErrDenied, full.Name)
	}

	if g.minInterval > 0 && !g.lastGrant.IsZero() {
		if since := now.Sub(g.lastGrant); since < g.minInterval {
			return fmt.Errorf("%w: min interval not elapsed", ErrDenied)
		}
	}

	g.grant(now)
	return nil
}

// WaitAndReserve blocks until a call slot is granted, the context is
// canceled, or a hard window turns out to be exhausted.
//
// The governor lock is held for the entire wait on purpose: it serializes
// all callers globally so the remote service never receives bursts, trading
// concurrency for strict compliance.
func (g *Governor) WaitAndReserve(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := g.now()
		g.purge(now)

		full := g.fullWindow()
		if full != nil && full.Hard {
			return fmt.Errorf("%w: window %q (%d/%d)", ErrExhausted, full.Name, len(full.grants), full.Capacity)
		}
		if full != nil {
			// Wait until the oldest grant ages out of the blocking window.
			wait := full.grants[0].Add(full.Length).Sub(now) + g.margin
			g.logger.Info("quota window full, waiting",
				"window", full.Name, "used", len(full.grants), "capacity", full.Capacity, "wait", wait)
			if err := g.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if g.minInterval > 0 && !g.lastGrant.IsZero() {
			if since := now.Sub(g.lastGrant); since < g.minInterval {
				if err := g.sleep(ctx, g.minInterval-since); err != nil {
					return err
				}
				continue
			}
		}

		g.grant(now)
		return nil
	}
}

// Record notes that a reserved call was actually issued. It is bookkeeping
// only; the quota slot was already consumed at reservation time, so calling
// Record more than once per call cannot overrun any window.
func (g *Governor) Record() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
}

// Usage returns per-window utilization plus the number of issued calls.
func (g *Governor) Usage() (windows []WindowUsage, issued int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.purge(g.now())
	windows = make([]WindowUsage, len(g.windows))
	for i, w := range g.windows {
		windows[i] = WindowUsage{Name: w.Name, Used: len(w.grants), Capacity: w.Capacity}
	}
	return windows, g.issued
}

// purge drops grants that have aged out of their windows.
// Must be called with the lock held.
func (g *Governor) purge(now time.Time) {
	for _, w := range g.windows {
		cutoff := now.Add(-w.Length)
		i := 0
		for i < len(w.grants) && !w.grants[i].After(cutoff) {
			i++
		}
		if i > 0 {
			w.grants = w.grants[i:]
		}
	}
}

// fullWindow returns the window that blocks the next grant, preferring the
// one whose oldest grant ages out last (the most constraining wait).
// Must be called with the lock held.
func (g *Governor) fullWindow() *windowState {
	var blocking *windowState
	for _, w := range g.windows {
		if len(w.grants) < w.Capacity {
			continue
		}
		if w.Hard {
			return w
		}
		if blocking == nil || w.grants[0].Add(w.Length).After(blocking.grants[0].Add(blocking.Length)) {
			blocking = w
		}
	}
	return blocking
}

// grant consumes one slot in every window.
// Must be called with the lock held.
func (g *Governor) grant(now time.Time) {
	for _, w := range g.windows {
		w.grants = append(w.grants, now)
	}
	g.lastGrant = now
}
