package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/embed"
	"github.com/poiesic/answerit/index"
)

// fixedEmbedder returns canned vectors per text.
func fixedEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 0}, nil
	}
	return m
}

func newTestRetriever(t *testing.T, embedder *mock.MockEmbedder, entries []core.IndexEntry, opts ...Option) *Retriever {
	t.Helper()
	client, err := embed.NewClient(embedder)
	require.NoError(t, err)
	t.Cleanup(client.Release)

	retriever, err := NewRetriever(index.NewFlatIndex(entries...), client, opts...)
	require.NoError(t, err)
	return retriever
}

func entry(text string, vector ...float32) core.IndexEntry {
	return core.IndexEntry{Text: text, Domain: "science", Source: "doc", Vector: vector}
}

func TestRetrieve_RanksByDistance(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"what is gravity": {0, 0},
	})
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{
		entry("far passage", 1, 1),
		entry("close passage", 0.1, 0.1),
	})

	hits := retriever.Retrieve(context.Background(), "what is gravity")
	require.Len(t, hits, 2)
	assert.Equal(t, "close passage", hits[0].Text)
	assert.Equal(t, "far passage", hits[1].Text)
}

func TestRetrieve_FiltersByThreshold(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"query": {0, 0},
	})
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{
		entry("relevant", 1, 0.5), // distance 1.25, inside the 1.5 default
		entry("irrelevant", 1, 1), // distance 2.0, outside
	})

	hits := retriever.Retrieve(context.Background(), "query")
	require.Len(t, hits, 1)
	assert.Equal(t, "relevant", hits[0].Text)
}

func TestRetrieve_ThresholdDisabled(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"query": {0, 0},
	})
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{
		entry("distant", 10, 10),
	}, WithThreshold(0))

	hits := retriever.Retrieve(context.Background(), "query")
	assert.Len(t, hits, 1)
}

func TestRetrieve_LimitsToTopK(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"query": {0, 0},
	})
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{
		entry("a", 0.1, 0),
		entry("b", 0.2, 0),
		entry("c", 0.3, 0),
		entry("d", 0.4, 0),
	}, WithTopK(2))

	hits := retriever.Retrieve(context.Background(), "query")
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Text)
	assert.Equal(t, "b", hits[1].Text)
}

func TestRetrieve_EmbedErrorReturnsEmpty(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("service down")
	}
	// Embed client degrades to a fallback vector on generic errors, so the
	// retriever still searches. Cancel the context to force a hard error.
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{entry("a", 1, 1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hits := retriever.Retrieve(ctx, "query")
	assert.Empty(t, hits)
}

func TestRetrieve_FallbackQueryStillSearches(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("service down")
	}

	// The fallback vector must match the index dimension to be searchable.
	client, err := embed.NewClient(embedder, embed.WithDim(2))
	require.NoError(t, err)
	t.Cleanup(client.Release)

	retriever, err := NewRetriever(index.NewFlatIndex(entry("a", 0, 0)), client, WithThreshold(0))
	require.NoError(t, err)

	hits := retriever.Retrieve(context.Background(), "query")
	assert.Len(t, hits, 1, "degraded query vectors may still retrieve")
}

func TestRetrieve_MonitorSeesStages(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"query": {0, 0},
	})
	retriever := newTestRetriever(t, embedder, []core.IndexEntry{
		entry("kept", 0.1, 0),
		entry("dropped", 10, 10),
	})

	monitor := &recordingMonitor{}
	hits := retriever.RetrieveWithMonitor(context.Background(), "query", monitor)

	require.Len(t, hits, 1)
	assert.Equal(t, "query", monitor.query)
	assert.False(t, monitor.fallback)
	assert.Len(t, monitor.rawHits, 2, "monitor sees hits before threshold filtering")
	assert.Len(t, monitor.finalHits, 1)
}

type recordingMonitor struct {
	query     string
	fallback  bool
	rawHits   []core.RetrievalHit
	finalHits []core.RetrievalHit
}

func (m *recordingMonitor) Start(query string)          { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(fb bool) { m.fallback = fb }
func (m *recordingMonitor) AfterIndexSearch(hits []core.RetrievalHit) {
	m.rawHits = append([]core.RetrievalHit(nil), hits...)
}
func (m *recordingMonitor) Finish(hits []core.RetrievalHit) {
	m.finalHits = append([]core.RetrievalHit(nil), hits...)
}

func TestNewRetriever_Validation(t *testing.T) {
	client, err := embed.NewClient(mock.NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(client.Release)

	_, err = NewRetriever(nil, client)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRetriever(index.NewFlatIndex(), nil)
	assert.ErrorIs(t, err, ErrEmbedClientRequired)
}
