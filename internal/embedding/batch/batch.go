// Package batch prepares texts for remote embedding endpoints and maps the
// answers back onto the caller's positions.
package batch

import (
	"fmt"
	"strings"
)

// MaxInputRunes is the longest input sent to a remote endpoint.
const MaxInputRunes = 8000

// Prepare trims and truncates every text and drops the blank ones. positions[i]
// is the original index of inputs[i].
func Prepare(texts []string) (inputs []string, positions []int) {
	inputs = make([]string, 0, len(texts))
	positions = make([]int, 0, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		inputs = append(inputs, truncate(t, MaxInputRunes))
		positions = append(positions, i)
	}
	return inputs, positions
}

func truncate(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Scatter places vectors at their original positions in a slice of length n.
// Positions without a vector get an empty, non-nil vector.
func Scatter(n int, positions []int, vectors [][]float32) ([][]float32, error) {
	if len(vectors) != len(positions) {
		return nil, fmt.Errorf("embedding result size mismatch: got %d want %d", len(vectors), len(positions))
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{}
	}
	for i, pos := range positions {
		out[pos] = vectors[i]
	}
	return out, nil
}
