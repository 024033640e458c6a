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

package corpus

import (
	"strings"

	"github.com/poiesic/answerit/chunker"
	"github.com/poiesic/answerit/core"
)

// ChunkRecord is one line of a chunk corpus file. It carries the chunk text
// together with enough provenance to trace it back to its source document
// and the configuration that produced it.
type ChunkRecord struct {
	Text           string `json:"text"`
	Domain         string `json:"domain"`
	OriginalLength int    `json:"original_length"`
	ChunkLength    int    `json:"chunk_length"`
	ChunkID        int    `json:"chunk_id"`
	TotalChunks    int    `json:"total_chunks"`
	OriginalID     string `json:"original_id"`
	ChunkingConfig string `json:"chunking_config"`
	ChunkSize      int    `json:"chunk_size"`
	Overlap        int    `json:"overlap"`
}

// ChunkDocument splits a document and wraps each piece in a ChunkRecord
// carrying full provenance. Repeated text inside one document (a boilerplate
// sentence re-split into the same window) yields one record; identity is the
// content hash, so chunk ids stay dense over what is kept.
func ChunkDocument(doc core.Document, s *chunker.Splitter) []ChunkRecord {
	pieces := dedupe(s.Split(doc.Text))
	if len(pieces) == 0 {
		return nil
	}

	cfg := s.Config()
	originalLength := len(strings.Fields(doc.Text))

	records := make([]ChunkRecord, len(pieces))
	for i, piece := range pieces {
		records[i] = ChunkRecord{
			Text:           piece,
			Domain:         doc.Domain,
			OriginalLength: originalLength,
			ChunkLength:    len(strings.Fields(piece)),
			ChunkID:        i,
			TotalChunks:    len(pieces),
			OriginalID:     doc.ID,
			ChunkingConfig: cfg.ID,
			ChunkSize:      cfg.ChunkSize,
			Overlap:        cfg.Overlap,
		}
	}
	return records
}

// dedupe drops pieces whose content hash was already seen, keeping order.
func dedupe(pieces []string) []string {
	seen := make(map[core.ID]struct{}, len(pieces))
	kept := pieces[:0]
	for _, piece := range pieces {
		id := core.IDFromContent(piece)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, piece)
	}
	return kept
}

// Chunk converts the record to its in-memory form.
func (r ChunkRecord) Chunk() core.Chunk {
	return core.Chunk{
		ID:          core.IDFromContent(r.Text),
		Text:        r.Text,
		DocumentID:  r.OriginalID,
		Index:       r.ChunkID,
		TotalChunks: r.TotalChunks,
		WordCount:   r.ChunkLength,
		ConfigID:    r.ChunkingConfig,
	}
}
