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

// Package embed turns text into vectors under a request quota.
//
// The Client wraps an ai.Embedder with a cache and a quota governor. Texts
// are normalized (whitespace collapsed) before lookup, so trivially
// reformatted duplicates share one cache entry and one quota slot. When the
// quota is exhausted or the upstream service fails, the Client degrades to a
// deterministic locally-generated vector instead of failing; such results
// are flagged so callers can decide whether degraded vectors are acceptable
// for their use. Fallbacks are cached under the same key as real embeddings,
// which means a text embedded during an outage keeps its degraded vector for
// the life of the cache.
package embed
