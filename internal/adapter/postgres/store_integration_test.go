package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petchat/backend/internal/testutils"
)

// unitVec returns a 768-dim embedding with all weight on one axis, so cosine
// similarity between two of them is 1 for the same axis and 0 otherwise.
func unitVec(axis int) []float32 {
	v := make([]float32, 768)
	v[axis] = 1
	return v
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	suite := testutils.NewIntegrationSuite(t)
	suite.Setup()
	defer suite.Teardown()

	ctx := context.Background()
	store := NewStore(suite.DB)

	require.NoError(t, store.Ping(ctx))

	caps, err := store.ResolveCapabilities(ctx)
	require.NoError(t, err)
	assert.True(t, caps.HasChunkIndex, "migrated schema carries chunk_index")

	docID, err := store.InsertDocument(ctx, "dog-anxiety", "documents/dog-anxiety.txt")
	require.NoError(t, err)
	require.NotZero(t, docID)

	idx0, idx1 := 0, 1
	chunk0, err := store.InsertChunk(ctx, docID, "thunderstorm anxiety in dogs", unitVec(0), &idx0)
	require.NoError(t, err)
	_, err = store.InsertChunk(ctx, docID, "separation anxiety basics", unitVec(1), &idx1)
	require.NoError(t, err)

	t.Run("MatchChunks Orders By Similarity", func(t *testing.T) {
		results, err := store.MatchChunks(ctx, unitVec(0), 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, chunk0, results[0].ChunkID)
		assert.Equal(t, docID, results[0].DocumentID)
		assert.Equal(t, "thunderstorm anxiety in dogs", results[0].Text)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
		assert.Greater(t, results[0].Similarity, results[1].Similarity)
	})

	t.Run("MatchChunks Respects Limit", func(t *testing.T) {
		results, err := store.MatchChunks(ctx, unitVec(0), 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("Backfill Roundtrip", func(t *testing.T) {
		_, err := suite.DB.ExecContext(ctx,
			`INSERT INTO chunks (document_id, chunk_text) VALUES ($1, $2)`, docID, "no embedding yet")
		require.NoError(t, err)

		pending, err := store.ChunksMissingEmbedding(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "no embedding yet", pending[0].Text)

		require.NoError(t, store.UpdateChunkEmbedding(ctx, pending[0].ID, unitVec(2)))

		pending, err = store.ChunksMissingEmbedding(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}
