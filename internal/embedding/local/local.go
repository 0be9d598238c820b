// Package local provides an embedding backend that needs no network: token
// counts hashed into a fixed number of buckets.
package local

import (
	"context"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const minDimension = 8

type Embedder struct {
	dim int
}

func New(dim int) *Embedder {
	return &Embedder{dim: max(dim, minDimension)}
}

func (e *Embedder) Name() string   { return "local" }
func (e *Embedder) Dimension() int { return e.dim }

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.Vector(t)
	}
	return out, nil
}

// Vector is deterministic: the same text always maps to the same vector.
// Text without tokens maps to the zero vector.
func (e *Embedder) Vector(text string) []float32 {
	counts := make([]float64, e.dim)
	for _, tok := range strings.Fields(text) {
		h := xxhash.Sum64String(strings.ToLower(tok))
		counts[h%uint64(e.dim)]++
	}

	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, e.dim)
	if norm == 0 {
		return vec
	}
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}
	return vec
}
