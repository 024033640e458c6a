package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is a raw corpus document before chunking.
type Document struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Domain string `json:"domain"`
}

// Chunk is a bounded, possibly overlapping span of a document's words.
// Chunks are produced once by the chunker and never revisited.
type Chunk struct {
	ID          ID     // Content-derived identity; equal text means equal ID
	Text        string
	DocumentID  string
	Index       int    // Position of this chunk within its document
	TotalChunks int    // Number of chunks the document produced
	WordCount   int
	ConfigID    string // Name of the chunking configuration that produced it
}

// Question is a single multiple-choice item from the evaluation dataset.
type Question struct {
	QID      string   `json:"qid"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

// IndexEntry is one row of the vector index: an embedded chunk together with
// the metadata needed to present it as retrieval context.
type IndexEntry struct {
	Text   string
	Domain string
	Source string
	Vector []float32
}

// RetrievalHit is a single retrieval result for a query.
// Hits are ephemeral and ordered ascending by Distance (lower = more relevant).
type RetrievalHit struct {
	Text     string
	Distance float32
	Domain   string
	Source   string
}

// ProgressRecord is one durable output row for a processed question.
// The presence of a QID in the output is the sole resumption signal.
type ProgressRecord struct {
	QID     string
	Answer  string
	Elapsed time.Duration
}
