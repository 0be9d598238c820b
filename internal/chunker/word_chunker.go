package chunker

import (
	"strings"

	"github.com/google/uuid"

	"lightrag/internal/domain"
)

// WordChunker cuts text into fixed-size word windows that overlap by a fixed
// number of words.
type WordChunker struct {
	size    int
	overlap int
}

func NewWordChunker(size, overlap int) *WordChunker {
	if size < 1 {
		size = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > size-1 {
		overlap = size - 1
	}
	return &WordChunker{size: size, overlap: overlap}
}

func (c *WordChunker) Size() int    { return c.size }
func (c *WordChunker) Overlap() int { return c.overlap }

func (c *WordChunker) Chunk(text, source string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := max(1, c.size-c.overlap)

	var chunks []domain.Chunk
	for idx := 0; idx < len(words); idx += step {
		end := min(idx+c.size, len(words))
		chunks = append(chunks, domain.Chunk{
			ID:     uuid.NewString(),
			Text:   strings.Join(words[idx:end], " "),
			Start:  idx,
			End:    end,
			Source: source,
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}
