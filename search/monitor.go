package search

import "github.com/poiesic/answerit/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during retrieval.
type RetrievalMonitor interface {
	Start(query string)
	AfterQueryEmbedding(fallback bool)
	AfterIndexSearch(hits []core.RetrievalHit)
	Finish(hits []core.RetrievalHit)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterQueryEmbedding(_ bool)             {}
func (n *noopMonitor) AfterIndexSearch(_ []core.RetrievalHit) {}
func (n *noopMonitor) Finish(_ []core.RetrievalHit)           {}
