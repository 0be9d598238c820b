package domain

// Document is a unit of ingestion: a label plus its raw text.
type Document struct {
	Source string
	Text   string
}

// Chunk is a contiguous window of words taken from one document.
// Start and End are word offsets into the whitespace-split text, End exclusive.
type Chunk struct {
	ID     string
	Text   string
	Start  int
	End    int
	Source string
}

// Entity is a salient token found in a chunk.
type Entity struct {
	Name       string // surface form as written
	Normalized string // lowercase key
	ChunkID    string
	Position   int // word index inside the chunk
}

// Relation connects two normalized entity names seen next to each other.
type Relation struct {
	Source       string
	Target       string
	RelationType string
	Weight       float64
}

// RetrievalResult is a ranked chunk with its score breakdown inputs.
type RetrievalResult struct {
	Chunk           Chunk
	Score           float64
	MatchedEntities []string
	RelatedEntities []string
}
