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

package answer

import (
	"context"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/remote"
	"github.com/poiesic/answerit/search"
)

// DefaultMaxContextChars caps the reference material included in a grounded
// prompt.
const DefaultMaxContextChars = 4096

// Result is the outcome of answering one question.
type Result struct {
	// Answer is the chosen letter. Never empty.
	Answer string

	// Fallback is true when the model output was unusable and the answer
	// is the canned guess.
	Fallback bool

	// Grounded is true when retrieval supplied context for the prompt.
	Grounded bool

	// Hits are the passages used as context, nearest first.
	Hits []core.RetrievalHit
}

// Pipeline answers multiple-choice questions, optionally grounding them in
// retrieved context.
type Pipeline struct {
	generator       ai.Generator
	retriever       *search.Retriever
	digitPolicy     DigitPolicy
	maxContextChars int
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithRetriever attaches a retriever for grounded prompts. Without one,
// every question uses the ungrounded prompt.
func WithRetriever(r *search.Retriever) Option {
	return func(p *Pipeline) error {
		p.retriever = r
		return nil
	}
}

// WithDigitPolicy sets how digit-only completions map to letters.
// Default is DigitOffset.
func WithDigitPolicy(policy DigitPolicy) Option {
	return func(p *Pipeline) error {
		p.digitPolicy = policy
		return nil
	}
}

// WithMaxContextChars caps the context included in a grounded prompt.
// Non-positive values disable the cap.
func WithMaxContextChars(n int) Option {
	return func(p *Pipeline) error {
		p.maxContextChars = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an answering pipeline around the given generator.
func NewPipeline(generator ai.Generator, opts ...Option) (*Pipeline, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	p := &Pipeline{
		generator:       generator,
		digitPolicy:     DigitOffset,
		maxContextChars: DefaultMaxContextChars,
		logger:          slog.Default().With("component", "answer"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Answer produces a letter for the question. Unusable model output yields
// the fallback answer; only context cancellation, invalid questions, and
// authentication failures surface as errors, since retrying or guessing
// cannot fix any of them.
func (p *Pipeline) Answer(ctx context.Context, q core.Question) (Result, error) {
	if err := core.ValidateQuestion(&q); err != nil {
		return Result{}, err
	}

	var hits []core.RetrievalHit
	if p.retriever != nil {
		hits = p.retriever.Retrieve(ctx, q.Question)
	}

	contextBlock := truncateContext(formatContext(hits), p.maxContextChars)
	system := buildSystemPrompt(contextBlock)
	user := buildUserPrompt(q)

	raw, err := p.generator.Generate(ctx, system, user)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if remote.KindOf(err) == remote.KindAuth {
			return Result{}, err
		}
		p.logger.Warn("generation failed, using fallback answer", "qid", q.QID, "err", err)
		return Result{Answer: FallbackAnswer, Fallback: true, Grounded: contextBlock != "", Hits: hits}, nil
	}

	letter, ok := ParseAnswer(raw, p.digitPolicy)
	if !ok {
		p.logger.Warn("unparseable completion, using fallback answer", "qid", q.QID, "raw", raw)
		return Result{Answer: FallbackAnswer, Fallback: true, Grounded: contextBlock != "", Hits: hits}, nil
	}

	return Result{Answer: letter, Grounded: contextBlock != "", Hits: hits}, nil
}
