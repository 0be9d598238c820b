package service

import (
	"context"
	"errors"
	"sync"
)

// stubBackend returns the same unit vector for every text and counts calls.
type stubBackend struct {
	mu    sync.Mutex
	calls int
	texts [][]string
	err   error
	short bool // drop the last vector
}

func (b *stubBackend) Name() string   { return "stub" }
func (b *stubBackend) Dimension() int { return 2 }

func (b *stubBackend) Embed(_ context.Context, texts []string) ([][]float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.texts = append(b.texts, texts)
	if b.err != nil {
		return nil, b.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	if b.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (b *stubBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

var errBackendDown = errors.New("backend down")
