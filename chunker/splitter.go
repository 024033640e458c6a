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

package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMinWords is the floor below which a candidate chunk is discarded.
// Fragments shorter than this carry too little signal to embed usefully.
const DefaultMinWords = 10

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Method selects the splitting strategy.
type Method string

const (
	// MethodSentence accumulates whole sentences into each chunk. This is
	// the default.
	MethodSentence Method = "sentence"

	// MethodWords slides fixed word windows with no sentence awareness.
	MethodWords Method = "words"
)

// Config controls how a Splitter divides text.
type Config struct {
	// ID names the configuration. It is recorded on every chunk the
	// configuration produces.
	ID string

	// ChunkSize is the target chunk length in words.
	ChunkSize int

	// Overlap is the number of trailing words carried into the next chunk.
	Overlap int

	// MinWords discards chunks shorter than this many words.
	// Zero means DefaultMinWords.
	MinWords int

	// Method is the splitting strategy. Zero value means MethodSentence.
	Method Method
}

// Named configurations covering the usual retrieval granularities.
var (
	Small  = Config{ID: "small", ChunkSize: 256, Overlap: 32}
	Medium = Config{ID: "medium", ChunkSize: 512, Overlap: 64}
	Large  = Config{ID: "large", ChunkSize: 1024, Overlap: 128}
)

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d with chunk size %d", ErrInvalidOverlap, c.Overlap, c.ChunkSize)
	}
	switch c.Method {
	case "", MethodSentence, MethodWords:
	default:
		return fmt.Errorf("%w: method %q", ErrInvalidMethod, c.Method)
	}
	return nil
}

// minWords resolves the configured floor, applying the default.
func (c Config) minWords() int {
	if c.MinWords > 0 {
		return c.MinWords
	}
	return DefaultMinWords
}

// Splitter divides text into chunks according to a Config.
type Splitter struct {
	cfg Config
}

// NewSplitter returns a Splitter for the given configuration.
func NewSplitter(cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{cfg: cfg}, nil
}

// Config returns the splitter's configuration.
func (s *Splitter) Config() Config {
	return s.cfg
}

// Split divides text into chunks according to the configured method.
//
// With MethodSentence, sentences are accumulated until adding the next one
// would exceed the word budget; the accumulated run is emitted and the next
// chunk is seeded with the last Overlap words. A single sentence longer than
// the budget is hard-split into fixed windows, each looking back Overlap
// words into its predecessor. Chunks shorter than the configured floor are
// dropped.
func (s *Splitter) Split(text string) []string {
	if s.cfg.Method == MethodWords {
		return s.SplitWords(text)
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))
		if s.cfg.Overlap > 0 && len(current) > s.cfg.Overlap {
			current = append([]string(nil), current[len(current)-s.cfg.Overlap:]...)
		} else {
			current = nil
		}
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		if len(words) > s.cfg.ChunkSize {
			// The sentence alone busts the budget. Emit whatever has
			// accumulated, then window across the sentence directly.
			flush()
			current = nil
			chunks = append(chunks, windowWords(words, s.cfg.ChunkSize, s.cfg.Overlap)...)
			continue
		}

		if len(current)+len(words) > s.cfg.ChunkSize {
			flush()
		}
		current = append(current, words...)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return s.dropShort(chunks)
}

// SplitWords divides text into fixed word windows, ignoring sentence
// boundaries entirely.
func (s *Splitter) SplitWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	return s.dropShort(windowWords(words, s.cfg.ChunkSize, s.cfg.Overlap))
}

func (s *Splitter) dropShort(chunks []string) []string {
	floor := s.cfg.minWords()
	kept := chunks[:0]
	for _, chunk := range chunks {
		if len(strings.Fields(chunk)) >= floor {
			kept = append(kept, chunk)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// windowWords slides a size-word window across words, stepping by
// size-overlap. The final window is clamped to the end of the slice.
func windowWords(words []string, size, overlap int) []string {
	step := size - overlap
	var out []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}

// splitSentences divides text on terminal punctuation runs. Punctuation is
// not retained; chunk text is joined from bare words.
func splitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
