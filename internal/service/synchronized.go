package service

import (
	"context"
	"sync"

	"lightrag/internal/domain"
)

// Synchronized lets several goroutines share one Retriever. Ingestion takes
// the write lock; retrieval and stats share the read lock.
type Synchronized struct {
	mu sync.RWMutex
	r  *Retriever
}

func NewSynchronized(r *Retriever) *Synchronized {
	return &Synchronized{r: r}
}

func (s *Synchronized) IngestDocuments(ctx context.Context, docs []domain.Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IngestDocuments(ctx, docs)
}

func (s *Synchronized) Ingest(ctx context.Context, source, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Ingest(ctx, source, text)
}

func (s *Synchronized) IngestInBatches(ctx context.Context, docs []domain.Document, batchSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IngestInBatches(ctx, docs, batchSize)
}

func (s *Synchronized) Retrieve(ctx context.Context, query string, limit int, mode domain.RetrievalMode) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Retrieve(ctx, query, limit, mode)
}

func (s *Synchronized) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Len()
}

func (s *Synchronized) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Stats()
}
