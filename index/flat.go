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


package index

import (
	"slices"

	"github.com/poiesic/answerit/core"
)

// FlatIndex is an exact in-memory nearest-neighbor index. It scans every
// entry per query and ranks by squared Euclidean distance, ascending.
type FlatIndex struct {
	entries []core.IndexEntry
}

// NewFlatIndex builds a flat index over the given entries.
func NewFlatIndex(entries ...core.IndexEntry) *FlatIndex {
	return &FlatIndex{entries: entries}
}

// Len reports the number of indexed entries.
func (f *FlatIndex) Len() int {
	return len(f.entries)
}

// Search returns the k entries nearest to vector, ordered ascending by
// distance. Fewer than k hits are returned when the index is small.
func (f *FlatIndex) Search(vector []float32, k int) []core.RetrievalHit {
	if k < 1 || len(f.entries) == 0 || len(vector) == 0 {
		return nil
	}

	hits := make([]core.RetrievalHit, 0, len(f.entries))
	for i := range f.entries {
		entry := &f.entries[i]
		if len(entry.Vector) != len(vector) {
			// A query of the wrong dimension cannot be ranked against this
			// entry; distance over a shared prefix would be meaningless.
			continue
		}
		hits = append(hits, core.RetrievalHit{
			Text:     entry.Text,
			Distance: squaredL2(vector, entry.Vector),
			Domain:   entry.Domain,
			Source:   entry.Source,
		})
	}

	slices.SortStableFunc(hits, func(a, b core.RetrievalHit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// squaredL2 computes squared Euclidean distance. Callers guarantee equal
// lengths.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
