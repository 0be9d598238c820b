package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightrag/internal/domain"
	"lightrag/internal/vectorstore"
)

func entry(id string, emb ...float32) vectorstore.IndexedChunk {
	return vectorstore.IndexedChunk{Chunk: domain.Chunk{ID: id}, Embedding: emb}
}

func TestAppendKeepsOrder(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Append(entry("a", 1, 0), entry("b", 0, 1)))
	require.NoError(t, idx.Append(entry("c", 1, 1)))

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Dimension())

	var ids []string
	for _, e := range idx.Entries() {
		ids = append(ids, e.Chunk.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestAppendRejectsMismatchAtomically(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Append(entry("a", 1, 0)))

	err := idx.Append(entry("b", 0, 1), entry("c", 1, 2, 3))
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
	assert.Equal(t, 1, idx.Len())
}

func TestEmptyEmbeddingsAllowed(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Append(entry("blank")))
	assert.Equal(t, 0, idx.Dimension())

	require.NoError(t, idx.Append(entry("a", 1, 0, 0), entry("blank2")))
	assert.Equal(t, 3, idx.Dimension())
	assert.Equal(t, 3, idx.Len())
}

func TestEntriesIsSnapshot(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Append(entry("a", 1)))
	snap := idx.Entries()
	require.NoError(t, idx.Append(entry("b", 1)))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, idx.Len())
}
