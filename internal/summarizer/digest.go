// Package summarizer condenses retrieved chunks into a few sentences.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"lightrag/internal/domain"
)

const (
	defaultMaxSentences = 3
	entityBonus         = 0.5
)

var (
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}@#]+(?:['’][\p{L}\p{N}]+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Digester ranks sentences of the retrieved chunks by word frequency, weighted
// by the score of the chunk they came from and by the entities they mention.
type Digester struct {
	stopwords map[string]struct{}
}

func New() *Digester {
	return &Digester{stopwords: defaultStopwords()}
}

type candidate struct {
	rank, pos int
	text      string
	score     float64
}

// Digest returns up to maxSentences sentences joined by spaces, ordered by
// result rank and then by position inside the chunk.
func (d *Digester) Digest(results []domain.RetrievalResult, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = defaultMaxSentences
	}

	var cands []candidate
	seen := make(map[string]struct{})
	freq := make(map[string]float64)
	for rank, r := range results {
		for pos, s := range Sentences(r.Chunk.Text) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			cands = append(cands, candidate{rank: rank, pos: pos, text: s})
			for _, tok := range d.tokens(s) {
				freq[tok]++
			}
		}
	}
	if len(cands) == 0 {
		return ""
	}

	var maxF float64
	for _, v := range freq {
		maxF = max(maxF, v)
	}

	for i := range cands {
		c := &cands[i]
		r := results[c.rank]
		toks := d.tokens(c.text)
		var s float64
		for _, tok := range toks {
			s += freq[tok] / maxF
		}
		if len(toks) > 0 {
			s /= math.Sqrt(float64(len(toks)))
		}
		s *= 1 + max(r.Score, 0)
		s += entityBonus * float64(mentions(toks, r.MatchedEntities, r.RelatedEntities))
		c.score = s
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > maxSentences {
		cands = cands[:maxSentences]
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return cands[i].pos < cands[j].pos
	})

	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.text
	}
	return strings.Join(out, " ")
}

// BestSentence splits text into sentences and returns the index of the one
// sharing the most distinct tokens with terms, or -1 when nothing overlaps.
func (d *Digester) BestSentence(text string, terms []string) ([]string, int) {
	sentences := Sentences(text)
	want := make(map[string]struct{})
	for _, t := range terms {
		for _, tok := range d.tokens(t) {
			want[tok] = struct{}{}
		}
	}

	best, bestScore := -1, 0
	for i, s := range sentences {
		score := 0
		got := make(map[string]struct{})
		for _, tok := range d.tokens(s) {
			if _, dup := got[tok]; dup {
				continue
			}
			got[tok] = struct{}{}
			if _, ok := want[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return sentences, best
}

// Sentences splits on terminal punctuation; a trailing fragment without
// punctuation is kept as the last sentence.
func Sentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func (d *Digester) tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := d.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func mentions(tokens []string, entityLists ...[]string) int {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	n := 0
	for _, list := range entityLists {
		for _, e := range list {
			if _, ok := set[strings.ToLower(e)]; ok {
				n++
			}
		}
	}
	return n
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about",
		"between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too",
		"very", "can", "will", "just", "don", "should", "now",
		"что", "как", "это", "или", "для", "при", "про", "без", "под", "над", "и", "в", "на", "не",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
