package domain

// Chunker splits a document's text into word-offset windows.
type Chunker interface {
	Chunk(text, source string) []Chunk
}

// EntityExtractor finds entities and relations in a chunk and keywords in a query.
// The retriever only relies on this contract, so a statistical tagger can replace
// the heuristic one without touching the scoring code.
type EntityExtractor interface {
	Extract(chunk Chunk) ([]Entity, []Relation)
	ExtractKeywords(text string) []string
}
