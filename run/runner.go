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

package run

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/answerit/answer"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/quota"
	"github.com/poiesic/answerit/remote"
)

// DefaultReportInterval is how often the tracker prints progress, in
// answered questions.
const DefaultReportInterval = 10

// Summary describes what one Run accomplished.
type Summary struct {
	// Answered is the number of rows appended during this run.
	Answered int

	// Skipped is the number of questions already present in the log.
	Skipped int

	// Fallbacks counts answered questions that got the canned guess.
	Fallbacks int

	// Paused is true when the run stopped on an exhausted hard quota
	// window with questions remaining. Rerunning later resumes where
	// this run left off.
	Paused bool

	// Elapsed is the wall time of this run.
	Elapsed time.Duration
}

// Runner answers a question set, appending each result to the progress log
// the moment it is known.
type Runner struct {
	pipeline       *answer.Pipeline
	progress       *ProgressLog
	timing         *TimingLog
	governor       *quota.Governor
	trackerOut     io.Writer
	reportInterval int
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithGovernor attaches a quota governor consulted before every question.
func WithGovernor(g *quota.Governor) Option {
	return func(r *Runner) error {
		r.governor = g
		return nil
	}
}

// WithTimingLog attaches a per-question timing log.
func WithTimingLog(l *TimingLog) Option {
	return func(r *Runner) error {
		r.timing = l
		return nil
	}
}

// WithTrackerOutput sets where progress lines are printed.
// Default is io.Discard.
func WithTrackerOutput(w io.Writer) Option {
	return func(r *Runner) error {
		if w == nil {
			w = io.Discard
		}
		r.trackerOut = w
		return nil
	}
}

// WithReportInterval sets how often the tracker reports.
func WithReportInterval(n int) Option {
	return func(r *Runner) error {
		r.reportInterval = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a runner over the given pipeline and progress log.
func NewRunner(pipeline *answer.Pipeline, progress *ProgressLog, opts ...Option) (*Runner, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if progress == nil {
		return nil, ErrProgressLogRequired
	}

	r := &Runner{
		pipeline:       pipeline,
		progress:       progress,
		trackerOut:     io.Discard,
		reportInterval: DefaultReportInterval,
		logger:         slog.Default().With("component", "run"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run answers every question not already in the progress log. A question
// that cannot be answered still gets a row with the fallback guess, so the
// output always covers everything attempted. The run stops early on an
// exhausted hard quota window (Summary.Paused), on context cancellation, or
// on an authentication failure; all three leave the log consistent for a
// later resume.
func (r *Runner) Run(ctx context.Context, questions []core.Question) (summary Summary, err error) {
	pending := make([]core.Question, 0, len(questions))
	for _, q := range questions {
		if r.progress.Done(q.QID) {
			summary.Skipped++
			continue
		}
		pending = append(pending, q)
	}

	r.logger.Info("starting run",
		"total", len(questions), "done", summary.Skipped, "pending", len(pending))

	tracker := NewTracker(r.trackerOut, len(pending), r.reportInterval)
	tracker.Start()
	defer func() {
		tracker.Finish()
		summary.Elapsed = tracker.Elapsed()
	}()

	for _, q := range pending {
		if r.governor != nil {
			if err := r.governor.WaitAndReserve(ctx); err != nil {
				if errors.Is(err, quota.ErrExhausted) {
					r.logger.Warn("quota exhausted, pausing run",
						"answered", summary.Answered, "remaining", len(pending)-summary.Answered)
					summary.Paused = true
					return summary, nil
				}
				return summary, err
			}
		}

		start := time.Now()
		record, fallback, err := r.answerOne(ctx, q)
		if err != nil {
			return summary, err
		}
		record.Elapsed = time.Since(start)

		if err := r.progress.Append(record); err != nil {
			return summary, err
		}
		if r.timing != nil {
			if err := r.timing.Append(record); err != nil {
				return summary, err
			}
		}

		summary.Answered++
		if fallback {
			summary.Fallbacks++
		}
		tracker.Increment(1)
	}

	r.logQuotaUsage()
	return summary, nil
}

// answerOne produces the row for one question. Pipeline failures that do
// not invalidate the whole run degrade to the fallback guess.
func (r *Runner) answerOne(ctx context.Context, q core.Question) (core.ProgressRecord, bool, error) {
	result, err := r.pipeline.Answer(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return core.ProgressRecord{}, false, ctx.Err()
		}
		if remote.KindOf(err) == remote.KindAuth {
			return core.ProgressRecord{}, false, err
		}
		r.logger.Warn("question failed, recording fallback answer", "qid", q.QID, "err", err)
		return core.ProgressRecord{QID: q.QID, Answer: answer.FallbackAnswer}, true, nil
	}

	if r.governor != nil {
		r.governor.Record()
	}
	return core.ProgressRecord{QID: q.QID, Answer: result.Answer}, result.Fallback, nil
}

func (r *Runner) logQuotaUsage() {
	if r.governor == nil {
		return
	}
	windows, issued := r.governor.Usage()
	for _, w := range windows {
		r.logger.Info("quota window usage", "window", w.Name, "used", w.Used, "capacity", w.Capacity)
	}
	r.logger.Info("calls issued", "count", issued)
}
