package mock

import (
	"context"
	"hash/fnv"
)

// DefaultDim matches the dimension the embed client assumes, so a mock
// wired straight into a client produces vectors the index can rank.
const DefaultDim = 1024

// MockEmbedder implements ai.Embedder for tests. Leave the function
// fields nil to get deterministic content-hashed vectors, or set them
// to script failures and canned responses.
type MockEmbedder struct {
	EmbedTextFunc  func(ctx context.Context, text string) ([]float32, error)
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder returns the concrete type so tests can inspect call counts.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return DeterministicVector(text, DefaultDim), nil
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = DeterministicVector(text, DefaultDim)
	}
	return out, nil
}

// CallCount reports how many embed calls the mock has received, scripted
// or not.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset returns the mock to its default behavior and zeroes the call count.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// DeterministicVector derives a dim-length vector from the FNV-32a hash
// of text. Equal text always yields equal vectors, which lets tests
// assert on retrieval results without a real embedding model.
func DeterministicVector(text string, dim int) []float32 {
	hash := fnv.New32a()
	hash.Write([]byte(text))
	state := hash.Sum32()

	vector := make([]float32, dim)
	var sum float32
	for i := range vector {
		// Numerical Recipes LCG, folded into [0, 1).
		state = state*1664525 + 1013904223
		v := float32(state%1000) / 1000.0
		vector[i] = v
		sum += v * v
	}
	if sum > 0 {
		scale := 1.0 / sum
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector
}
