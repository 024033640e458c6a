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

package embed

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/quota"
	"github.com/poiesic/answerit/remote"
)

// Result is one embedding outcome.
type Result struct {
	// Vector is the embedding. Always non-nil on a nil error.
	Vector []float32

	// Fallback is true when the vector was generated locally because the
	// quota was exhausted or the upstream call failed.
	Fallback bool

	// Cached is true when the vector was served from the cache.
	Cached bool
}

// Client embeds text through an ai.Embedder, consulting a cache first and a
// quota governor before every upstream call.
type Client struct {
	embedder ai.Embedder
	governor *quota.Governor
	cache    *Cache
	pool     *ants.Pool
	dim      int
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithGovernor sets the quota governor consulted before upstream calls.
// Without a governor the client calls upstream freely.
func WithGovernor(g *quota.Governor) Option {
	return func(c *Client) error {
		c.governor = g
		return nil
	}
}

// WithCache substitutes the embedding cache. Default is a fresh empty cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) error {
		if cache == nil {
			cache = NewCache()
		}
		c.cache = cache
		return nil
	}
}

// WithDim sets the fallback vector dimension. Default is DefaultDim.
func WithDim(dim int) Option {
	return func(c *Client) error {
		if dim < 1 {
			dim = DefaultDim
		}
		c.dim = dim
		return nil
	}
}

// WithPoolSize sets the worker pool size for batch encoding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates an embedding client around the given embedder.
func NewClient(embedder ai.Embedder, opts ...Option) (*Client, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Client{
		embedder: embedder,
		cache:    NewCache(),
		pool:     pool,
		dim:      DefaultDim,
		logger:   slog.Default().With("component", "embed"),
	}
	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}
	return c, nil
}

// Cache returns the client's cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Encode embeds a single text. Cached texts are returned without consuming
// quota. When the quota's hard window is exhausted or the upstream call
// fails, Encode degrades to a deterministic fallback vector and caches it;
// only context cancellation and authentication failures propagate as errors,
// since neither can be papered over with a degraded vector.
func (c *Client) Encode(ctx context.Context, text string) (Result, error) {
	if vector, fallback, ok := c.cache.Get(text); ok {
		return Result{Vector: vector, Fallback: fallback, Cached: true}, nil
	}

	if c.governor != nil {
		if err := c.governor.WaitAndReserve(ctx); err != nil {
			if errors.Is(err, quota.ErrExhausted) {
				c.logger.Warn("embedding quota exhausted, using fallback vector")
				return c.degrade(text), nil
			}
			return Result{}, err
		}
	}

	vector, err := c.embedder.EmbedText(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if remote.KindOf(err) == remote.KindAuth {
			return Result{}, err
		}
		c.logger.Warn("embedding call failed, using fallback vector", "err", err)
		return c.degrade(text), nil
	}
	if len(vector) == 0 {
		c.logger.Warn("embedder returned empty vector, using fallback")
		return c.degrade(text), nil
	}

	if c.governor != nil {
		c.governor.Record()
	}
	c.cache.Put(text, vector)
	return Result{Vector: vector}, nil
}

// degrade produces, caches, and wraps a fallback vector for text.
func (c *Client) degrade(text string) Result {
	vector := fallbackVector(text, c.dim)
	c.cache.PutFallback(text, vector)
	return Result{Vector: vector, Fallback: true}
}

// EncodeBatch embeds texts concurrently, preserving input order. The first
// propagating error cancels nothing already in flight but is returned once
// all workers finish.
func (c *Client) EncodeBatch(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))
	errs := make([]error, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		submitErr := c.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = c.Encode(ctx, text)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Release releases the batch worker pool.
// The client should not be used after calling Release.
func (c *Client) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
