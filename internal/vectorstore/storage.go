// Package vectorstore holds the ordered list of embedded chunks the retriever
// scores against.
package vectorstore

import (
	"errors"

	"lightrag/internal/domain"
)

// IndexedChunk is a chunk together with its embedding and the entities found
// in it. Entries are never modified after they are appended.
type IndexedChunk struct {
	Chunk     domain.Chunk
	Embedding []float32
	Entities  []domain.Entity
}

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Index is append-only and keeps insertion order.
type Index interface {
	Append(entries ...IndexedChunk) error
	Len() int
	Entries() []IndexedChunk
}
