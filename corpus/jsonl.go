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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/poiesic/answerit/core"
)

// maxLineBytes bounds a single JSONL line. Chunk records stay well under
// this even at the largest chunking configuration.
const maxLineBytes = 4 << 20

// Writer appends chunk records to a JSONL stream. It is safe for
// concurrent use.
type Writer struct {
	mu      sync.Mutex
	w       *bufio.Writer
	encoder *json.Encoder
	written int
}

// NewWriter wraps w for chunk record output.
func NewWriter(w io.Writer) *Writer {
	buffered := bufio.NewWriter(w)
	return &Writer{
		w:       buffered,
		encoder: json.NewEncoder(buffered),
	}
}

// Write appends one record as a JSON line.
func (w *Writer) Write(record ChunkRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("encoding chunk record: %w", err)
	}
	w.written++
	return nil
}

// Written reports how many records have been written.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Flush()
}

// ReadChunks decodes chunk records from a JSONL stream. Malformed lines are
// skipped and counted rather than failing the read.
func ReadChunks(r io.Reader) ([]ChunkRecord, error) {
	var records []ChunkRecord
	skipped, err := scanLines(r, func(line []byte) error {
		var record ChunkRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Default().With("component", "corpus").
			Warn("skipped malformed chunk lines", "skipped", skipped, "kept", len(records))
	}
	return records, nil
}

// ReadDocuments decodes source documents from a JSONL stream. Documents with
// empty text are dropped along with malformed lines.
func ReadDocuments(r io.Reader) ([]core.Document, error) {
	var docs []core.Document
	skipped, err := scanLines(r, func(line []byte) error {
		var doc core.Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return err
		}
		if strings.TrimSpace(doc.Text) == "" {
			return fmt.Errorf("document %q has no text", doc.ID)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Default().With("component", "corpus").
			Warn("skipped malformed document lines", "skipped", skipped, "kept", len(docs))
	}
	return docs, nil
}

// ReadChunksFile reads a chunk corpus from a file path.
func ReadChunksFile(path string) ([]ChunkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chunk corpus: %w", err)
	}
	defer f.Close()
	return ReadChunks(f)
}

// ReadDocumentsFile reads source documents from a file path.
func ReadDocumentsFile(path string) ([]core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document corpus: %w", err)
	}
	defer f.Close()
	return ReadDocuments(f)
}

// scanLines feeds each non-empty line to fn, counting lines fn rejects.
// Only scanner failures are returned as errors.
func scanLines(r io.Reader, fn func(line []byte) error) (skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("reading corpus lines: %w", err)
	}
	return skipped, nil
}
