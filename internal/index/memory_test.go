package index

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns fixed vectors for known texts and a default vector
// otherwise, so tests control the similarity ranking.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{1, 1, 1}
	}
	return out, nil
}

func newTestIndex() *Memory {
	return NewMemory(&stubEmbedder{vectors: map[string][]float32{
		"returns":  {1, 0, 0},
		"shipping": {0, 1, 0},
	}})
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.EnsureCollection(ctx, "documents"))
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	assert.Len(t, idx.collections, 1)
}

func TestQueryUnknownCollection(t *testing.T) {
	idx := newTestIndex()

	_, err := idx.Query(context.Background(), "missing", "anything", Filter{}, 5)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestTenantIsolation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	userA, userB := uuid.New(), uuid.New()
	docA, docB := uuid.New(), uuid.New()

	require.NoError(t, idx.Upsert(ctx, "documents", []string{"a policy text"},
		Metadata{Source: "a.pdf", UserID: userA, DocumentID: docA}))
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"b policy text"},
		Metadata{Source: "b.pdf", UserID: userB, DocumentID: docB}))

	got, err := idx.Query(ctx, "documents", "policy",
		TenantFilter(userA, []uuid.UUID{docA, docB}), 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"a policy text"}, got,
		"user A must never retrieve user B's chunks")
}

func TestDocumentScopeIsolation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	user := uuid.New()
	docX, docY := uuid.New(), uuid.New()

	require.NoError(t, idx.Upsert(ctx, "documents", []string{"from x"},
		Metadata{Source: "x.pdf", UserID: user, DocumentID: docX}))
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"from y"},
		Metadata{Source: "y.pdf", UserID: user, DocumentID: docY}))

	got, err := idx.Query(ctx, "documents", "anything",
		TenantFilter(user, []uuid.UUID{docX}), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"from x"}, got)

	// Empty permitted set retrieves nothing, not everything.
	got, err = idx.Query(ctx, "documents", "anything", TenantFilter(user, nil), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryRanksBySimilarity(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	user := uuid.New()
	doc := uuid.New()
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"shipping", "returns"},
		Metadata{Source: "policy.pdf", UserID: user, DocumentID: doc}))

	got, err := idx.Query(ctx, "documents", "returns",
		TenantFilter(user, []uuid.UUID{doc}), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"returns"}, got)
}

func TestUpsertReplacesExistingChunkIDs(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	user := uuid.New()
	doc := uuid.New()
	meta := Metadata{Source: "policy.pdf", UserID: user, DocumentID: doc}

	require.NoError(t, idx.Upsert(ctx, "documents", []string{"v1"}, meta))
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"v2"}, meta))

	got, err := idx.Query(ctx, "documents", "anything",
		TenantFilter(user, []uuid.UUID{doc}), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, got)
}

func TestDeleteByDocument(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	user := uuid.New()
	docX, docY := uuid.New(), uuid.New()
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"keep"},
		Metadata{UserID: user, DocumentID: docX}))
	require.NoError(t, idx.Upsert(ctx, "documents", []string{"drop"},
		Metadata{UserID: user, DocumentID: docY}))

	require.NoError(t, idx.DeleteByDocument(ctx, "documents", docY))

	got, err := idx.Query(ctx, "documents", "anything",
		TenantFilter(user, []uuid.UUID{docX, docY}), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, got)
}

// truncatingEmbedder returns fewer vectors than texts, as a misbehaving
// backend might.
type truncatingEmbedder struct{}

func (truncatingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1, 0, 0}}, nil
}

func TestUpsertRejectsShortEmbedderResponse(t *testing.T) {
	idx := NewMemory(truncatingEmbedder{})
	ctx := context.Background()
	require.NoError(t, idx.EnsureCollection(ctx, "documents"))

	err := idx.Upsert(ctx, "documents", []string{"one", "two"},
		Metadata{UserID: uuid.New(), DocumentID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 vectors for 2 chunks")
}

func TestChunkIDSuffix(t *testing.T) {
	doc := uuid.New()
	assert.Equal(t, doc.String()+"_0", ChunkID(doc, 0))
	assert.Equal(t, doc.String()+"_12", ChunkID(doc, 12))
}

func TestFilterMatches(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	docX, docY := uuid.New(), uuid.New()

	f := TenantFilter(userA, []uuid.UUID{docX})

	assert.True(t, f.Matches(userA, docX))
	assert.False(t, f.Matches(userB, docX), "other tenant must not match")
	assert.False(t, f.Matches(userA, docY), "unpermitted document must not match")
	assert.False(t, TenantFilter(userA, nil).Matches(userA, docX),
		"empty permitted set matches nothing")
}
