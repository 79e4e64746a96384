package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
	"github.com/Enejivk/cleary-chat-Backend/internal/task"
)

// DocumentService handles upload, listing and removal of source documents.
type DocumentService struct {
	docs       *repository.DocumentRepository
	storage    *StorageService
	ingest     *IngestService
	statuses   StatusStore
	idx        index.Index
	collection string
	logger     *slog.Logger
}

func NewDocumentService(docs *repository.DocumentRepository, storage *StorageService, ingest *IngestService, statuses StatusStore, idx index.Index, collection string) *DocumentService {
	return &DocumentService{
		docs:       docs,
		storage:    storage,
		ingest:     ingest,
		statuses:   statuses,
		idx:        idx,
		collection: collection,
		logger:     slog.Default().With("component", "document"),
	}
}

// Upload stores the file in both destinations, records the document row and
// kicks off background ingestion. The document row is only created once both
// copies exist, so a row always points at real bytes.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename string, contentType string, data []byte) (*model.Document, *task.Handle, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, nil, ErrInvalidFileType
	}

	documentID := uuid.New()
	key := path.Join(userID.String(), documentID.String()+"_"+path.Base(filename))

	url, localPath, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &model.Document{
		BaseModel:   model.BaseModel{ID: documentID},
		UserID:      userID,
		Filename:    filename,
		Filepath:    url,
		StorageKey:  key,
		ContentType: contentType,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// Roll back the stored copies so no orphaned blobs linger.
		if cleanupErr := s.storage.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn("failed to clean up stored copies", "key", key, "error", cleanupErr)
		}
		return nil, nil, fmt.Errorf("record document: %w", err)
	}

	handle := s.ingest.Dispatch(userID, localPath, documentID, filename)
	s.logger.Info("document uploaded", "document_id", documentID, "user_id", userID, "filename", filename)
	return doc, handle, nil
}

func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	return s.docs.FindByUser(ctx, userID)
}

func (s *DocumentService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Document, error) {
	doc, err := s.docs.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Status reports where the document is in the ingestion pipeline.
func (s *DocumentService) Status(ctx context.Context, id, userID uuid.UUID) (string, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return "", err
	}
	return s.statuses.GetStatus(ctx, id)
}

// Delete removes the document row, both stored copies and its indexed
// chunks. The blob and index cleanup is best effort after the row delete.
func (s *DocumentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	doc, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete stored copies", "document_id", id, "error", err)
	}
	if err := s.idx.DeleteByDocument(ctx, s.collection, id); err != nil {
		s.logger.Warn("failed to purge document chunks", "document_id", id, "error", err)
	}

	s.logger.Info("document deleted", "document_id", id, "user_id", userID)
	return nil
}
