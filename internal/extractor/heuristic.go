// Package extractor finds entity-like tokens in chunks without any model:
// capitalised words, handles, hashtags and tokens carrying digits.
package extractor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"lightrag/internal/domain"
)

const (
	minTokenLen = 3

	// CoOccurs is the relation type between entities adjacent in a chunk.
	CoOccurs = "co_occurs"

	querySource = "query"
)

// Heuristic is the default domain.EntityExtractor.
type Heuristic struct{}

func New() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Extract(chunk domain.Chunk) ([]domain.Entity, []domain.Relation) {
	var entities []domain.Entity
	seen := make(map[string]struct{})

	for pos, raw := range strings.Fields(chunk.Text) {
		token := trimToken(raw)
		if utf8.RuneCountInString(token) < minTokenLen {
			continue
		}
		lower := strings.ToLower(token)
		if isStopword(lower) || !isCandidate(token) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		entities = append(entities, domain.Entity{
			Name:       token,
			Normalized: lower,
			ChunkID:    chunk.ID,
			Position:   pos,
		})
	}

	var relations []domain.Relation
	for i := 1; i < len(entities); i++ {
		relations = append(relations, domain.Relation{
			Source:       entities[i-1].Normalized,
			Target:       entities[i].Normalized,
			RelationType: CoOccurs,
			Weight:       1.0,
		})
	}
	return entities, relations
}

// ExtractKeywords runs the entity rules over a query and returns the unique
// normalized names in sorted order.
func (h *Heuristic) ExtractKeywords(text string) []string {
	entities, _ := h.Extract(domain.Chunk{
		ID:     querySource,
		Text:   text,
		Source: querySource,
	})
	keywords := make([]string, 0, len(entities))
	for _, e := range entities {
		keywords = append(keywords, e.Normalized)
	}
	sort.Strings(keywords)
	return keywords
}

func trimToken(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '@' && r != '#'
	})
}

func isCandidate(token string) bool {
	first, _ := utf8.DecodeRuneInString(token)
	if unicode.IsUpper(first) {
		return true
	}
	if strings.ContainsAny(token, "@#") {
		return true
	}
	return strings.IndexFunc(token, unicode.IsNumber) >= 0
}
