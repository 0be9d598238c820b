package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightrag/internal/chunker"
	"lightrag/internal/domain"
	"lightrag/internal/embedding"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 128, cfg.ChunkSize)
	assert.Equal(t, 16, cfg.ChunkOverlap)
	assert.Equal(t, 8, cfg.VectorTopK)
	assert.Equal(t, 4, cfg.GraphDepth)
	assert.Equal(t, 256, cfg.EmbeddingDim)
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("Chunks with configured window", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChunkSize, cfg.ChunkOverlap = 4, 1
		r := NewLocal(cfg)

		n, err := r.Ingest(ctx, "doc", "one two three four five six seven")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, r.Len())
		assert.False(t, r.IsEmpty())
	})

	t.Run("Same document twice is indexed twice", func(t *testing.T) {
		r := NewLocal(DefaultConfig())
		_, err := r.Ingest(ctx, "doc1", "Alice loves Go and Rust")
		require.NoError(t, err)
		n, err := r.Ingest(ctx, "doc1", "Alice loves Go and Rust")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		node, ok := r.Graph().Node("alice")
		require.True(t, ok)
		assert.Equal(t, 2, node.Occurrences)
		assert.Len(t, node.Chunks, 2)

		edge, ok := r.Graph().Edge("alice", "rust")
		require.True(t, ok)
		assert.InDelta(t, 2.0, edge.Weight, 1e-9)
	})

	t.Run("Blank documents make no backend call", func(t *testing.T) {
		b := &stubBackend{}
		r := New(DefaultConfig(), b)

		n, err := r.IngestDocuments(ctx, []domain.Document{{Source: "a", Text: "  "}, {Source: "b"}})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0, b.Calls())

		n, err = r.IngestDocuments(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.True(t, r.IsEmpty())
		assert.Equal(t, 0, r.Graph().NodeCount())
		assert.Equal(t, 0, r.Graph().EdgeCount())
	})

	t.Run("Blank documents leave an existing index untouched", func(t *testing.T) {
		r := New(DefaultConfig(), &stubBackend{})
		_, err := r.Ingest(ctx, "doc", "Alice met Bob")
		require.NoError(t, err)
		nodes, edges := r.Graph().NodeCount(), r.Graph().EdgeCount()

		n, err := r.IngestDocuments(ctx, []domain.Document{{Source: "blank", Text: "\n\t "}})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, nodes, r.Graph().NodeCount())
		assert.Equal(t, edges, r.Graph().EdgeCount())
	})

	t.Run("One backend call per ingest in chunk order", func(t *testing.T) {
		b := &stubBackend{}
		cfg := DefaultConfig()
		cfg.ChunkSize, cfg.ChunkOverlap = 2, 0
		r := New(cfg, b)

		n, err := r.IngestDocuments(ctx, []domain.Document{
			{Source: "a", Text: "w1 w2 w3"},
			{Source: "b", Text: ""},
			{Source: "c", Text: "w4"},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.Equal(t, 1, b.Calls())
		assert.Equal(t, []string{"w1 w2", "w3", "w4"}, b.texts[0])
	})

	t.Run("Embedding failure commits nothing", func(t *testing.T) {
		b := &stubBackend{err: errBackendDown}
		r := New(DefaultConfig(), b)

		n, err := r.Ingest(ctx, "doc", "Alice met Bob")
		require.Error(t, err)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, embedding.ErrEmbedding)
		assert.ErrorIs(t, err, errBackendDown)
		assert.True(t, r.IsEmpty())
		assert.Equal(t, 0, r.Graph().NodeCount())
		assert.Equal(t, 0, r.Graph().EdgeCount())
	})

	t.Run("Short backend answer is an embedding failure", func(t *testing.T) {
		b := &stubBackend{short: true}
		r := New(DefaultConfig(), b)

		_, err := r.Ingest(ctx, "doc", "Alice met Bob")
		assert.ErrorIs(t, err, embedding.ErrEmbedding)
		assert.True(t, r.IsEmpty())
	})
}

func TestIngestInBatches(t *testing.T) {
	b := &stubBackend{}
	r := New(DefaultConfig(), b)

	docs := make([]domain.Document, 5)
	for i := range docs {
		docs[i] = domain.Document{Source: fmt.Sprintf("doc%d", i), Text: fmt.Sprintf("Text number %d", i)}
	}

	n, err := r.IngestInBatches(context.Background(), docs, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 3, b.Calls())

	b.err = errBackendDown
	n, err = r.IngestInBatches(context.Background(), docs, 0)
	assert.ErrorIs(t, err, embedding.ErrEmbedding)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, r.Len())

	n, err = r.IngestDocuments(context.Background(), docs)
	assert.ErrorIs(t, err, embedding.ErrEmbedding)
	assert.Equal(t, 5, n)
}

func TestRetrieveRanksRelevantDocumentFirst(t *testing.T) {
	ctx := context.Background()
	r := NewLocal(DefaultConfig())

	_, err := r.Ingest(ctx, "doc1", "Alice loves Go. Alice writes Rust.")
	require.NoError(t, err)
	_, err = r.Ingest(ctx, "doc2", "Bob enjoys gardening.")
	require.NoError(t, err)

	results, err := r.Retrieve(ctx, "What does Alice love?", 1, domain.Hybrid)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].Chunk.Source)
	assert.Equal(t, []string{"Alice"}, results[0].MatchedEntities)
}

func TestRetrieveAliceScenario(t *testing.T) {
	ctx := context.Background()
	r := NewLocal(DefaultConfig())

	n, err := r.IngestDocuments(ctx, []domain.Document{
		{Source: "doc1", Text: "Alice loves Rust programming and open source projects."},
		{Source: "doc2", Text: "Gardening on weekends helps Bob relax."},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	results, err := r.Retrieve(ctx, "What does Alice love?", 1, domain.Hybrid)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].Chunk.Source)
	assert.Contains(t, results[0].MatchedEntities, "Alice")

	all, err := r.Retrieve(ctx, "What does Alice love?", 2, domain.Hybrid)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Greater(t, all[0].Score, all[1].Score)
}

func TestRetrieveScoring(t *testing.T) {
	ctx := context.Background()
	b := &stubBackend{}
	r := New(DefaultConfig(), b)

	_, err := r.IngestDocuments(ctx, []domain.Document{
		{Source: "carol", Text: "Carol sat quietly"},
		{Source: "alice", Text: "Alice met Bob"},
	})
	require.NoError(t, err)
	callsAfterIngest := b.Calls()

	t.Run("Vector only", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "Alice", 10, domain.VectorOnly)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, res := range results {
			assert.InDelta(t, 1.0, res.Score, 1e-9)
		}
		// equal scores keep index order
		assert.Equal(t, "carol", results[0].Chunk.Source)
	})

	t.Run("Hybrid adds graph signal", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "Alice", 10, domain.Hybrid)
		require.NoError(t, err)
		require.Len(t, results, 2)

		top := results[0]
		assert.Equal(t, "alice", top.Chunk.Source)
		assert.Equal(t, []string{"Alice"}, top.MatchedEntities)
		assert.ElementsMatch(t, []string{"alice", "bob"}, top.RelatedEntities)
		assert.InDelta(t, 1.0+0.05+0.02, top.Score, 1e-9)
		assert.InDelta(t, 1.0, results[1].Score, 1e-9)
	})

	t.Run("Graph only skips the backend", func(t *testing.T) {
		before := b.Calls()
		results, err := r.Retrieve(ctx, "Alice", 10, domain.GraphOnly)
		require.NoError(t, err)
		assert.Equal(t, before, b.Calls())

		require.Len(t, results, 2)
		assert.Equal(t, "alice", results[0].Chunk.Source)
		assert.InDelta(t, 0.07, results[0].Score, 1e-9)
		assert.Zero(t, results[1].Score)
	})

	t.Run("Related entities score without matches", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "nothing relevant", 10, domain.GraphOnly)
		require.NoError(t, err)
		assert.InDelta(t, 0.02, results[0].Score, 1e-9)
		assert.Empty(t, results[0].MatchedEntities)
	})

	t.Run("Limit", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "Alice", 1, domain.Hybrid)
		require.NoError(t, err)
		assert.Len(t, results, 1)

		results, err = r.Retrieve(ctx, "Alice", 0, domain.Hybrid)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	assert.Greater(t, b.Calls(), callsAfterIngest)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	b := &stubBackend{}
	r := New(DefaultConfig(), b)

	results, err := r.Retrieve(context.Background(), "anything", 5, domain.Hybrid)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, b.Calls())
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	b := &stubBackend{}
	r := New(DefaultConfig(), b)
	_, err := r.Ingest(context.Background(), "doc", "Alice met Bob")
	require.NoError(t, err)

	b.err = errBackendDown
	_, err = r.Retrieve(context.Background(), "Alice", 5, domain.VectorOnly)
	assert.ErrorIs(t, err, embedding.ErrEmbedding)

	results, err := r.Retrieve(context.Background(), "Alice", 5, domain.GraphOnly)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestWithChunkerOption(t *testing.T) {
	r := New(DefaultConfig(), &stubBackend{}, WithChunker(chunker.NewSentenceChunker(1, 0)))
	n, err := r.Ingest(context.Background(), "doc", "Alice codes. Bob gardens.")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats := r.Stats()
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 2, stats.Nodes)
	assert.Equal(t, 0, stats.Edges)
	assert.Equal(t, "stub", stats.Backend)
}

// keywordExtractor tags every chunk with one fixed entity.
type keywordExtractor struct {
	calls int
}

func (e *keywordExtractor) Extract(ch domain.Chunk) ([]domain.Entity, []domain.Relation) {
	e.calls++
	return []domain.Entity{{Name: "Zeta", Normalized: "zeta", ChunkID: ch.ID}}, nil
}

func (e *keywordExtractor) ExtractKeywords(string) []string { return []string{"zeta"} }

func TestWithExtractorOption(t *testing.T) {
	ctx := context.Background()
	ex := &keywordExtractor{}
	r := New(DefaultConfig(), &stubBackend{}, WithExtractor(ex))

	_, err := r.IngestDocuments(ctx, []domain.Document{
		{Source: "a", Text: "lowercase words only"},
		{Source: "b", Text: "more lowercase words"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ex.calls)

	node, ok := r.Graph().Node("zeta")
	require.True(t, ok)
	assert.Equal(t, 2, node.Occurrences)

	results, err := r.Retrieve(ctx, "no capitals here", 5, domain.GraphOnly)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, []string{"Zeta"}, res.MatchedEntities)
		assert.InDelta(t, 0.05, res.Score, 1e-9)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"empty", nil, nil, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSynchronizedConcurrentUse(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronized(NewLocal(DefaultConfig()))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Ingest(ctx, fmt.Sprintf("doc%d", i), fmt.Sprintf("Alice met Bob%d", i))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.Retrieve(ctx, "Alice", 3, domain.Hybrid)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, s.Len())
	assert.Equal(t, 8, s.Stats().Chunks)
}
