package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/embed"
	"github.com/poiesic/answerit/index"
)

const (
	// DefaultThreshold is the maximum squared distance for a hit to count
	// as relevant context.
	DefaultThreshold = 1.5

	// DefaultTopK is the number of passages retrieved per question.
	DefaultTopK = 3
)

// Retriever finds relevant context passages for a query.
type Retriever struct {
	flat      *index.FlatIndex
	client    *embed.Client
	threshold float32
	topK      int
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithThreshold sets the maximum distance for a hit to be kept.
// Non-positive values disable the filter.
func WithThreshold(threshold float32) Option {
	return func(r *Retriever) error {
		r.threshold = threshold
		return nil
	}
}

// WithTopK sets how many passages are retrieved per query.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			k = DefaultTopK
		}
		r.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over the given index, embedding queries
// through the given client.
func NewRetriever(flat *index.FlatIndex, client *embed.Client, opts ...Option) (*Retriever, error) {
	if flat == nil {
		return nil, ErrIndexRequired
	}
	if client == nil {
		return nil, ErrEmbedClientRequired
	}

	r := &Retriever{
		flat:      flat,
		client:    client,
		threshold: DefaultThreshold,
		topK:      DefaultTopK,
		logger:    slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve returns up to topK passages relevant to the query, nearest first.
// It never fails: if the query cannot be embedded, or nothing beats the
// relevance threshold, the result is simply empty.
func (r *Retriever) Retrieve(ctx context.Context, query string) []core.RetrievalHit {
	return r.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor is Retrieve with observation hooks. The monitor
// receives callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, monitor RetrievalMonitor) []core.RetrievalHit {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	result, err := r.client.Encode(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, answering without context", "err", err)
		monitor.Finish(nil)
		return nil
	}
	monitor.AfterQueryEmbedding(result.Fallback)
	if result.Fallback {
		r.logger.Debug("query embedded with fallback vector", "query_length", len(query))
	}

	hits := r.flat.Search(result.Vector, r.topK)
	monitor.AfterIndexSearch(hits)

	if r.threshold > 0 {
		kept := hits[:0]
		for _, hit := range hits {
			if hit.Distance < r.threshold {
				kept = append(kept, hit)
			}
		}
		hits = kept
	}

	monitor.Finish(hits)
	return hits
}
