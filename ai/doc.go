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


// Package ai provides abstractions for the model services used in Answerit.
//
// This package defines interfaces for text embedding and answer generation.
// The pipeline and retrieval code depend only on these abstractions, so
// providers can be swapped without touching business logic.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces a completion for a system/user prompt pair
//   - Provider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/vnpt: Production implementation against the VNPT AI gateway,
//     which authenticates with a bearer token plus token-id/token-key
//     headers rather than a standard API key
//   - ai/openai: Implementation for OpenAI-compatible APIs, useful for
//     local serving stacks (Ollama, vLLM, LocalAI)
//   - ai/mock: Test doubles for unit testing without external services
//
// Public constructors return interface types to enforce abstraction. Mock
// constructors return concrete types so tests can inject behavior and make
// assertions.
package ai
