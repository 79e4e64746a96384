package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/pkg/redisx"
)

// Ingestion status values. Callers can poll these while the background
// pipeline runs.
const (
	IngestStatusPending    = "pending"
	IngestStatusProcessing = "processing"
	IngestStatusCompleted  = "completed"
	IngestStatusFailed     = "failed"
	IngestStatusUnknown    = "unknown"
)

const ingestStatusTTL = 24 * time.Hour

// StatusStore records the ingestion status of a document.
type StatusStore interface {
	SetStatus(ctx context.Context, documentID uuid.UUID, status string) error
	GetStatus(ctx context.Context, documentID uuid.UUID) (string, error)
}

// RedisStatusStore keeps statuses in redis so they survive restarts and are
// visible to every replica.
type RedisStatusStore struct {
	client *redisx.Client
}

func NewRedisStatusStore(client *redisx.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func ingestKey(documentID uuid.UUID) string {
	return "ingest:" + documentID.String()
}

func (s *RedisStatusStore) SetStatus(ctx context.Context, documentID uuid.UUID, status string) error {
	return s.client.Set(ctx, ingestKey(documentID), status, ingestStatusTTL)
}

func (s *RedisStatusStore) GetStatus(ctx context.Context, documentID uuid.UUID) (string, error) {
	status, err := s.client.Get(ctx, ingestKey(documentID))
	if redisx.IsNotFound(err) {
		return IngestStatusUnknown, nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// MemoryStatusStore is the fallback when redis is not configured.
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[uuid.UUID]string
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[uuid.UUID]string)}
}

func (s *MemoryStatusStore) SetStatus(ctx context.Context, documentID uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[documentID] = status
	return nil
}

func (s *MemoryStatusStore) GetStatus(ctx context.Context, documentID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[documentID]; ok {
		return status, nil
	}
	return IngestStatusUnknown, nil
}
