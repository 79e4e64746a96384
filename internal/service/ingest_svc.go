package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/task"
)

// IngestService runs the extract, chunk and embed-and-store pipeline for one
// uploaded file, scoped to the uploading user.
type IngestService struct {
	extractor  PageExtractor
	chunker    *Chunker
	idx        index.Index
	statuses   StatusStore
	collection string
	logger     *slog.Logger
}

func NewIngestService(extractor PageExtractor, chunker *Chunker, idx index.Index, statuses StatusStore, collection string) *IngestService {
	return &IngestService{
		extractor:  extractor,
		chunker:    chunker,
		idx:        idx,
		statuses:   statuses,
		collection: collection,
		logger:     slog.Default().With("component", "ingest"),
	}
}

// Dispatch runs Ingest in the background and returns a handle the caller
// may discard. The upload response never waits for ingestion.
func (s *IngestService) Dispatch(userID uuid.UUID, filePath string, documentID uuid.UUID, displayName string) *task.Handle {
	if err := s.statuses.SetStatus(context.Background(), documentID, IngestStatusPending); err != nil {
		s.logger.Warn("failed to record pending status", "document_id", documentID, "error", err)
	}
	return task.Go("ingest", func(ctx context.Context) error {
		return s.Ingest(ctx, userID, filePath, documentID, displayName)
	})
}

// Ingest processes one file. Failures abort this file only; the temporary
// local copy is removed on every exit path.
func (s *IngestService) Ingest(ctx context.Context, userID uuid.UUID, filePath string, documentID uuid.UUID, displayName string) (err error) {
	defer func() {
		if removeErr := os.Remove(filePath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.logger.Warn("failed to remove temporary file", "path", filePath, "error", removeErr)
		}
		status := IngestStatusCompleted
		if err != nil {
			status = IngestStatusFailed
		}
		if statusErr := s.statuses.SetStatus(context.Background(), documentID, status); statusErr != nil {
			s.logger.Warn("failed to record status", "document_id", documentID, "error", statusErr)
		}
	}()

	if err := s.statuses.SetStatus(ctx, documentID, IngestStatusProcessing); err != nil {
		s.logger.Warn("failed to record processing status", "document_id", documentID, "error", err)
	}

	pages, err := s.extractor.ExtractPages(filePath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", displayName, err)
	}

	if err := s.idx.EnsureCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("ensure collection %s: %w", s.collection, err)
	}

	var chunks []string
	for _, page := range pages {
		chunks = append(chunks, s.chunker.Split(page)...)
	}
	if len(chunks) == 0 {
		s.logger.Info("document has no extractable text",
			"document_id", documentID, "user_id", userID)
		return nil
	}

	meta := index.Metadata{Source: displayName, UserID: userID, DocumentID: documentID}
	if err := s.idx.Upsert(ctx, s.collection, chunks, meta); err != nil {
		return fmt.Errorf("index %s: %w", displayName, err)
	}

	s.logger.Info("document ingested",
		"document_id", documentID, "user_id", userID, "chunks", len(chunks))
	return nil
}
