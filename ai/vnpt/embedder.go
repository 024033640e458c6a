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

// Embedder implements ai.Embedder against the gateway's embedding endpoint.
type Embedder struct {
	client      *remote.Client
	caller      *remote.Caller
	url         string
	model       string
	maxAttempts int
	logger      *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config, creds remote.Credentials, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := newSettings(opts)

	return &Embedder{
		client:      remote.NewClient(creds, s.timeout),
		caller:      s.caller,
		url:         config.EmbeddingHost,
		model:       config.EmbeddingModel,
		maxAttempts: s.maxAttempts,
		logger:      slog.Default().With("component", "vnpt-embedder"),
	}, nil
}

// NewEmbedder creates an embedder for the gateway's embedding endpoint.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, creds remote.Credentials, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, creds, opts...)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("requesting embedding", "length", len(text))

	payload := embeddingRequest{
		Model:          e.model,
		Input:          text,
		EncodingFormat: "float",
	}
	resp, err := e.caller.Call(ctx, func(ctx context.Context) (remote.Response, error) {
		return e.client.Post(ctx, e.url, payload)
	}, e.maxAttempts)
	if err != nil {
		e.logger.Error("embedding request failed", "err", err)
		return nil, err
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: embedding data missing", ErrEmptyResponse)
	}
	return decoded.Data[0].Embedding, nil
}

// EmbedTexts generates embeddings for multiple texts. The endpoint accepts
// one input per request, so texts are embedded sequentially.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
