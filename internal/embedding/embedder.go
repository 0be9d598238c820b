// Package embedding defines the embedding capability the retriever depends on
// and chooses a concrete backend from configuration.
package embedding

import (
	"context"
	"errors"
)

// Backend turns texts into vectors. The returned slice has exactly one vector
// per input, in input order; a blank input may yield an empty vector.
type Backend interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmbedding marks failures of a backend call. The retriever wraps every
// backend error with it so callers can tell them apart from other failures.
var ErrEmbedding = errors.New("embedding failed")
