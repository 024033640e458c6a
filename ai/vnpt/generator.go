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

package vnpt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/remote"
)

// Generator implements ai.Generator against the gateway's chat endpoint.
type Generator struct {
	client      *remote.Client
	caller      *remote.Caller
	url         string
	config      *ai.Config
	maxAttempts int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config, creds remote.Credentials, opts ...Option) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := newSettings(opts)

	return &Generator{
		client:      remote.NewClient(creds, s.timeout),
		caller:      s.caller,
		url:         config.GeneratorHost,
		config:      config,
		maxAttempts: s.maxAttempts,
		logger:      slog.Default().With("component", "vnpt-generator"),
	}, nil
}

// NewGenerator creates a generator for the gateway's chat endpoint.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config, creds remote.Credentials, opts ...Option) (ai.Generator, error) {
	return newGenerator(config, creds, opts...)
}

// Generate sends the prompts to the model and returns the raw completion.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: g.config.GeneratorModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:         g.config.Temperature,
		TopP:                g.config.TopP,
		TopK:                g.config.TopK,
		MaxCompletionTokens: g.config.MaxTokens,
	}
	resp, err := g.caller.Call(ctx, func(ctx context.Context) (remote.Response, error) {
		return g.client.Post(ctx, g.url, payload)
	}, g.maxAttempts)
	if err != nil {
		g.logger.Error("completion request failed", "err", err)
		return "", err
	}

	var decoded chatResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}
	return decoded.Choices[0].Message.Content, nil
}
