package domain

import "strings"

// RetrievalMode selects which signals contribute to a result's score.
type RetrievalMode int

const (
	Hybrid RetrievalMode = iota
	VectorOnly
	GraphOnly
)

func (m RetrievalMode) String() string {
	switch m {
	case VectorOnly:
		return "vector"
	case GraphOnly:
		return "graph"
	default:
		return "hybrid"
	}
}

// Next cycles through the modes in display order.
func (m RetrievalMode) Next() RetrievalMode {
	switch m {
	case Hybrid:
		return VectorOnly
	case VectorOnly:
		return GraphOnly
	default:
		return Hybrid
	}
}

// ParseRetrievalMode accepts the names used on the command line.
// "naive" and "local" are kept as aliases; anything unrecognised means Hybrid.
func ParseRetrievalMode(s string) RetrievalMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vector", "naive":
		return VectorOnly
	case "graph", "local":
		return GraphOnly
	default:
		return Hybrid
	}
}
