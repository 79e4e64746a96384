package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
)

type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) ExtractPages(path string) ([]string, error) {
	return f.pages, f.err
}

type fakeIndex struct {
	collections []string
	chunks      []string
	meta        index.Metadata
	upsertErr   error
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, collection string) error {
	f.collections = append(f.collections, collection)
	return nil
}

func (f *fakeIndex) Upsert(ctx context.Context, collection string, chunks []string, meta index.Metadata) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.chunks = append(f.chunks, chunks...)
	f.meta = meta
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, collection, query string, filter index.Filter, topK int) ([]string, error) {
	return nil, nil
}

func (f *fakeIndex) DeleteByDocument(ctx context.Context, collection string, documentID uuid.UUID) error {
	return nil
}

func (f *fakeIndex) DeleteByUser(ctx context.Context, collection string, userID uuid.UUID) error {
	return nil
}

func writeTempUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestIngestIndexesAllPages(t *testing.T) {
	userID := uuid.New()
	documentID := uuid.New()
	path := writeTempUpload(t)

	idx := &fakeIndex{}
	statuses := NewMemoryStatusStore()
	svc := NewIngestService(
		&fakeExtractor{pages: []string{"first page text", "second page text"}},
		NewChunker(500, 50),
		idx,
		statuses,
		"documents",
	)

	err := svc.Ingest(context.Background(), userID, path, documentID, "handbook.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"documents"}, idx.collections)
	require.Len(t, idx.chunks, 2)
	assert.Equal(t, "first page text", idx.chunks[0])
	assert.Equal(t, "second page text", idx.chunks[1])
	assert.Equal(t, index.Metadata{Source: "handbook.pdf", UserID: userID, DocumentID: documentID}, idx.meta)

	status, err := statuses.GetStatus(context.Background(), documentID)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusCompleted, status)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temporary file should be removed after ingestion")
}

func TestIngestSplitsLongPages(t *testing.T) {
	path := writeTempUpload(t)
	long := strings.Repeat("a", 700)

	idx := &fakeIndex{}
	svc := NewIngestService(
		&fakeExtractor{pages: []string{long}},
		NewChunker(500, 50),
		idx,
		NewMemoryStatusStore(),
		"documents",
	)

	err := svc.Ingest(context.Background(), uuid.New(), path, uuid.New(), "big.pdf")
	require.NoError(t, err)
	assert.Len(t, idx.chunks, 2)
}

func TestIngestExtractFailure(t *testing.T) {
	documentID := uuid.New()
	path := writeTempUpload(t)

	statuses := NewMemoryStatusStore()
	svc := NewIngestService(
		&fakeExtractor{err: errors.New("corrupt file")},
		NewChunker(500, 50),
		&fakeIndex{},
		statuses,
		"documents",
	)

	err := svc.Ingest(context.Background(), uuid.New(), path, documentID, "broken.pdf")
	require.Error(t, err)

	status, err := statuses.GetStatus(context.Background(), documentID)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusFailed, status)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temporary file should be removed even on failure")
}

func TestIngestUpsertFailure(t *testing.T) {
	documentID := uuid.New()
	path := writeTempUpload(t)

	statuses := NewMemoryStatusStore()
	svc := NewIngestService(
		&fakeExtractor{pages: []string{"some text"}},
		NewChunker(500, 50),
		&fakeIndex{upsertErr: errors.New("store unavailable")},
		statuses,
		"documents",
	)

	err := svc.Ingest(context.Background(), uuid.New(), path, documentID, "doc.pdf")
	require.Error(t, err)

	status, err := statuses.GetStatus(context.Background(), documentID)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusFailed, status)
}

func TestDispatchRunsInBackground(t *testing.T) {
	documentID := uuid.New()
	path := writeTempUpload(t)

	statuses := NewMemoryStatusStore()
	svc := NewIngestService(
		&fakeExtractor{pages: []string{"page"}},
		NewChunker(500, 50),
		&fakeIndex{},
		statuses,
		"documents",
	)

	handle := svc.Dispatch(uuid.New(), path, documentID, "doc.pdf")
	require.NoError(t, handle.Wait())

	status, err := statuses.GetStatus(context.Background(), documentID)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusCompleted, status)
}
