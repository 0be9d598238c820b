package chunker

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"lightrag/internal/domain"
)

var sentenceEnd = regexp.MustCompile(`[.!?]["')\]]*$`)

// SentenceChunker packs whole sentences into chunks, overlapping by whole
// sentences. Offsets are still word offsets so chunks from both strategies
// can live in the same index.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

type span struct{ start, end int }

// sentences groups word indexes into sentences. A trailing fragment without
// terminal punctuation counts as a sentence of its own.
func sentences(words []string) []span {
	var out []span
	start := 0
	for i, w := range words {
		if sentenceEnd.MatchString(w) {
			out = append(out, span{start, i + 1})
			start = i + 1
		}
	}
	if start < len(words) {
		out = append(out, span{start, len(words)})
	}
	return out
}

func (c *SentenceChunker) Chunk(text, source string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	sents := sentences(words)

	var chunks []domain.Chunk
	i := 0
	for i < len(sents) {
		end := min(i+c.sentencesPerChunk, len(sents))
		start, stop := sents[i].start, sents[end-1].end
		chunks = append(chunks, domain.Chunk{
			ID:     uuid.NewString(),
			Text:   strings.Join(words[start:stop], " "),
			Start:  start,
			End:    stop,
			Source: source,
		})
		if end == len(sents) {
			break
		}
		i = max(end-c.overlapSentences, i+1)
	}
	return chunks
}
