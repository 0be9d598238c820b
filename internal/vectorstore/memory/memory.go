package memory

import (
	"fmt"
	"sync"

	"lightrag/internal/vectorstore"
)

// Index keeps every entry in memory. The first non-empty embedding fixes the
// dimension; empty embeddings are accepted and never match anything.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []vectorstore.IndexedChunk
}

func NewIndex() *Index { return &Index{} }

// Append stores all entries or none of them.
func (s *Index) Append(entries ...vectorstore.IndexedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	for i, e := range entries {
		n := len(e.Embedding)
		if n == 0 {
			continue
		}
		if dim == 0 {
			dim = n
			continue
		}
		if n != dim {
			return fmt.Errorf("%w: entry %d has %d, index has %d", vectorstore.ErrDimensionMismatch, i, n, dim)
		}
	}
	s.dimension = dim
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Dimension is zero until a non-empty embedding has been stored.
func (s *Index) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// Entries returns a snapshot; appending later does not change it.
func (s *Index) Entries() []vectorstore.IndexedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vectorstore.IndexedChunk, len(s.entries))
	copy(out, s.entries)
	return out
}
