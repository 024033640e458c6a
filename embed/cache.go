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
	"strings"
	"sync"
)

// NormalizeKey collapses runs of whitespace to single spaces and trims the
// ends. Cache keys and quota accounting both use this form.
func NormalizeKey(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

type cacheEntry struct {
	vector   []float32
	fallback bool
}

// Cache is an in-memory embedding cache keyed on normalized text.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached vector for text, whether it is a fallback, and
// whether an entry was present. The text is normalized before lookup.
func (c *Cache) Get(text string) (vector []float32, fallback, ok bool) {
	key := NormalizeKey(text)

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry.vector, entry.fallback, ok
}

// Put stores a real embedding for text.
func (c *Cache) Put(text string, vector []float32) {
	c.put(text, vector, false)
}

// PutFallback stores a degraded embedding for text. It occupies the same
// key a real embedding would, so the text will not be re-requested.
func (c *Cache) PutFallback(text string, vector []float32) {
	c.put(text, vector, true)
}

func (c *Cache) put(text string, vector []float32, fallback bool) {
	key := NormalizeKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{vector: vector, fallback: fallback}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fallbacks reports how many entries are degraded vectors.
func (c *Cache) Fallbacks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entry := range c.entries {
		if entry.fallback {
			n++
		}
	}
	return n
}
