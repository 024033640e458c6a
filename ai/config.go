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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for model service providers.
type Config struct {
	// EmbeddingHost is the URL of the embedding endpoint.
	// For OpenAI-compatible providers this is a base URL; for the VNPT
	// gateway it is the full endpoint path.
	EmbeddingHost string

	// GeneratorHost is the URL of the completion endpoint.
	GeneratorHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "vnptai_hackathon_embedding", "text-embedding-3-small"
	EmbeddingModel string

	// GeneratorModel is the model identifier to use for completions.
	// Example: "vnptai_hackathon_small", "qwen2.5:3b"
	GeneratorModel string

	// Temperature controls sampling randomness for completions.
	// Kept low: answers are a single letter and should be stable.
	Temperature float64

	// TopP is the nucleus sampling cutoff for completions.
	TopP float64

	// TopK limits sampling to the K most likely tokens, where the
	// provider supports it.
	TopK int

	// MaxTokens caps the completion length. The answer format needs
	// exactly one token.
	MaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding endpoint URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the completion endpoint URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the completion model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithTemperature sets the completion sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithTopP sets the nucleus sampling cutoff.
func WithTopP(p float64) ConfigOption {
	return func(c *Config) {
		c.TopP = p
	}
}

// WithTopK sets the top-K sampling limit.
func WithTopK(k int) ConfigOption {
	return func(c *Config) {
		c.TopK = k
	}
}

// WithMaxTokens sets the completion length cap.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config targeting the VNPT AI gateway with the
// sampling parameters used for single-letter answers.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "https://api.idg.vnpt.vn/data-service/vnptai-hackathon-embedding",
		GeneratorHost:  "https://api.idg.vnpt.vn/data-service/v1/chat/completions/vnptai-hackathon-small",
		EmbeddingModel: "vnptai_hackathon_embedding",
		GeneratorModel: "vnptai_hackathon_small",
		Temperature:    0.1,
		TopP:           0.9,
		TopK:           20,
		MaxTokens:      1,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434/v1"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.EmbeddingHost = strings.TrimSuffix(strings.TrimSpace(c.EmbeddingHost), "/")
	c.GeneratorHost = strings.TrimSuffix(strings.TrimSpace(c.GeneratorHost), "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return errors.New("ai config: TopP must be in (0, 1]")
	}
	if c.TopK < 0 {
		return errors.New("ai config: TopK must be non-negative")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be at least 1")
	}
	return nil
}
