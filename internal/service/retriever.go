// Package service wires chunking, extraction, the knowledge graph and the
// embedding backend into a retriever that ranks chunks for a query.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lightrag/internal/chunker"
	"lightrag/internal/domain"
	"lightrag/internal/embedding"
	"lightrag/internal/embedding/local"
	"lightrag/internal/extractor"
	"lightrag/internal/graph"
	"lightrag/internal/logger"
	"lightrag/internal/vectorstore"
	"lightrag/internal/vectorstore/memory"
)

const (
	matchedEntityWeight = 0.05
	relatedEntityWeight = 0.01
)

// Config holds the retriever tunables.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	VectorTopK   int // result count used when Retrieve is called without a limit
	GraphDepth   int // neighbours kept per entity when expanding through the graph
	EmbeddingDim int // local backend dimension
}

// DefaultConfig returns a 128-word window with a 16-word overlap.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    128,
		ChunkOverlap: 16,
		VectorTopK:   8,
		GraphDepth:   4,
		EmbeddingDim: 256,
	}
}

// Option replaces one of the retriever's default components.
type Option func(*Retriever)

func WithChunker(c domain.Chunker) Option {
	return func(r *Retriever) { r.chunker = c }
}

// WithExtractor swaps the heuristic extractor, e.g. for a statistical NER model.
func WithExtractor(e domain.EntityExtractor) Option {
	return func(r *Retriever) { r.extractor = e }
}

// Retriever is not safe for concurrent use; see Synchronized.
type Retriever struct {
	cfg       Config
	chunker   domain.Chunker
	extractor domain.EntityExtractor
	backend   embedding.Backend
	graph     *graph.KnowledgeGraph
	index     vectorstore.Index
}

// New builds an empty retriever over backend with a word chunker, the
// heuristic extractor and an in-memory index.
func New(cfg Config, backend embedding.Backend, opts ...Option) *Retriever {
	r := &Retriever{
		cfg:       cfg,
		chunker:   chunker.NewWordChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		extractor: extractor.New(),
		backend:   backend,
		graph:     graph.New(),
		index:     memory.NewIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLocal builds a retriever that never leaves the process.
func NewLocal(cfg Config) *Retriever {
	return New(cfg, local.New(cfg.EmbeddingDim))
}

func (r *Retriever) Len() int      { return r.index.Len() }
func (r *Retriever) IsEmpty() bool { return r.index.Len() == 0 }

// Graph exposes the knowledge graph for inspection. Callers must not mutate it.
func (r *Retriever) Graph() *graph.KnowledgeGraph { return r.graph }

// Stats is a snapshot of index and graph sizes.
type Stats struct {
	Chunks    int
	Nodes     int
	Edges     int
	Backend   string
	Dimension int
}

func (r *Retriever) Stats() Stats {
	return Stats{
		Chunks:    r.index.Len(),
		Nodes:     r.graph.NodeCount(),
		Edges:     r.graph.EdgeCount(),
		Backend:   r.backend.Name(),
		Dimension: r.backend.Dimension(),
	}
}

type extracted struct {
	chunk     domain.Chunk
	entities  []domain.Entity
	relations []domain.Relation
}

// IngestDocuments chunks and extracts every non-blank document, embeds all
// chunks with a single backend call and returns the new index size.
// Nothing is committed to the graph or the index unless embedding succeeds;
// on error the returned size is the unchanged index size.
func (r *Retriever) IngestDocuments(ctx context.Context, docs []domain.Document) (int, error) {
	var pending []extracted
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		for _, ch := range r.chunker.Chunk(doc.Text, doc.Source) {
			entities, relations := r.extractor.Extract(ch)
			pending = append(pending, extracted{chunk: ch, entities: entities, relations: relations})
		}
	}
	if len(pending) == 0 {
		return r.index.Len(), nil
	}

	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = p.chunk.Text
	}
	vectors, err := r.backend.Embed(ctx, texts)
	if err != nil {
		return r.index.Len(), fmt.Errorf("%w: %d chunks: %w", embedding.ErrEmbedding, len(texts), err)
	}
	if len(vectors) != len(pending) {
		return r.index.Len(), fmt.Errorf("%w: got %d vectors for %d chunks", embedding.ErrEmbedding, len(vectors), len(pending))
	}

	entries := make([]vectorstore.IndexedChunk, len(pending))
	for i, p := range pending {
		entries[i] = vectorstore.IndexedChunk{Chunk: p.chunk, Embedding: vectors[i], Entities: p.entities}
	}
	if err := r.index.Append(entries...); err != nil {
		return r.index.Len(), fmt.Errorf("index chunks: %w", err)
	}
	for _, p := range pending {
		r.graph.AddEntities(p.entities)
		r.graph.AddRelations(p.relations)
	}

	size := r.index.Len()
	logger.Debug("ingested documents", "docs", len(docs), "chunks", len(pending), "index", size)
	return size, nil
}

// Ingest indexes a single document.
func (r *Retriever) Ingest(ctx context.Context, source, text string) (int, error) {
	return r.IngestDocuments(ctx, []domain.Document{{Source: source, Text: text}})
}

const DefaultBatchSize = 48

// IngestInBatches makes one embedding call per batchSize documents. Batches
// that completed before a failure stay in the index.
func (r *Retriever) IngestInBatches(ctx context.Context, docs []domain.Document, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	size := r.index.Len()
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		n, err := r.IngestDocuments(ctx, docs[start:end])
		if err != nil {
			return size, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		size = n
	}
	return size, nil
}

// Retrieve scores every indexed chunk against the query and returns the best
// limit results, highest score first. A non-positive limit means VectorTopK.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int, mode domain.RetrievalMode) ([]domain.RetrievalResult, error) {
	entries := r.index.Entries()
	if len(entries) == 0 {
		return []domain.RetrievalResult{}, nil
	}
	if limit <= 0 {
		limit = r.cfg.VectorTopK
	}

	var queryVec []float32
	if mode != domain.GraphOnly {
		vectors, err := r.backend.Embed(ctx, []string{query})
		if err != nil {
			return nil, fmt.Errorf("%w: query: %w", embedding.ErrEmbedding, err)
		}
		if len(vectors) > 0 {
			queryVec = vectors[0]
		}
	}

	keywords := make(map[string]struct{})
	for _, k := range r.extractor.ExtractKeywords(query) {
		keywords[k] = struct{}{}
	}

	results := make([]domain.RetrievalResult, 0, len(entries))
	for _, e := range entries {
		var matched []string
		for _, ent := range e.Entities {
			if _, ok := keywords[ent.Normalized]; ok {
				matched = append(matched, ent.Name)
			}
		}
		related := r.graph.NeighborsForEntities(e.Entities, r.cfg.GraphDepth)
		graphScore := matchedEntityWeight*float64(len(matched)) + relatedEntityWeight*float64(len(related))

		var score float64
		switch mode {
		case domain.VectorOnly:
			score = CosineSimilarity(queryVec, e.Embedding)
		case domain.GraphOnly:
			score = graphScore
		default:
			score = CosineSimilarity(queryVec, e.Embedding) + graphScore
		}

		results = append(results, domain.RetrievalResult{
			Chunk:           e.Chunk,
			Score:           score,
			MatchedEntities: matched,
			RelatedEntities: related,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	logger.Debug("retrieved", "mode", mode, "keywords", len(keywords), "results", len(results))
	return results, nil
}
