package main

import (
	"fmt"
	"io"
	"strings"

	"lightrag/internal/domain"
)

const snippetRunes = 240

func printResults(w io.Writer, query string, results []domain.RetrievalResult) {
	fmt.Fprintf(w, "\n=== LightRAG results for '%s' ===\n\n", query)
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. score: %.3f | source: %s\n", i+1, r.Score, r.Chunk.Source)
		fmt.Fprintf(w, "   %s\n", snippet(strings.ReplaceAll(r.Chunk.Text, "\n", " "), snippetRunes))
		if len(r.MatchedEntities) > 0 {
			fmt.Fprintf(w, "   matched entities: %s\n", strings.Join(r.MatchedEntities, ", "))
		}
		if len(r.RelatedEntities) > 0 {
			fmt.Fprintf(w, "   related entities: %s\n", strings.Join(r.RelatedEntities, ", "))
		}
		fmt.Fprintln(w)
	}
}

func snippet(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
