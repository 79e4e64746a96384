// Package index implements the tenant-scoped vector index. Chunks carry the
// owning user and source document as metadata; that metadata is the only
// tenant partitioning the index has, so every query goes through Filter.
package index

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// ErrCollectionNotFound is returned by Query when the named collection was
// never created. Callers that can tolerate an empty index should call
// EnsureCollection first.
var ErrCollectionNotFound = errors.New("collection not found")

// Metadata is attached to every chunk written in one Upsert call. All chunks
// of a document share it; only the positional id suffix differs.
type Metadata struct {
	Source     string
	UserID     uuid.UUID
	DocumentID uuid.UUID
}

// Embedder converts texts into vectors. Implemented by the OpenAI embedding
// service in production and by fakes in tests.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is the tenant-scoped vector store.
type Index interface {
	// EnsureCollection creates the named collection if it does not exist.
	// Calling it twice with the same name is not an error.
	EnsureCollection(ctx context.Context, name string) error

	// Upsert embeds the chunks and stores them under ids derived from the
	// document id plus the chunk position.
	Upsert(ctx context.Context, collection string, chunks []string, meta Metadata) error

	// Query embeds the query text and returns up to topK chunk texts whose
	// metadata satisfies the filter, ranked by cosine similarity. Querying a
	// collection that does not exist returns ErrCollectionNotFound.
	Query(ctx context.Context, collection, query string, filter Filter, topK int) ([]string, error)

	// DeleteByDocument removes all chunks of one document.
	DeleteByDocument(ctx context.Context, collection string, documentID uuid.UUID) error

	// DeleteByUser removes all chunks owned by one user.
	DeleteByUser(ctx context.Context, collection string, userID uuid.UUID) error
}

// ChunkID derives the unique vector id for the n-th chunk of a document.
func ChunkID(documentID uuid.UUID, n int) string {
	return documentID.String() + "_" + strconv.Itoa(n)
}
