package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Collection is a named partition of the vector index. Creation is
// idempotent; chunks reference collections by name.
type Collection struct {
	BaseModel
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

func (Collection) TableName() string {
	return "collections"
}

// Chunk is one embedded text window of a document. It lives only in the
// vector index, never in the relational bookkeeping tables. The user_id and
// document_id columns are the tenant-isolation metadata: every query path
// must filter on them.
type Chunk struct {
	ID         string          `gorm:"size:100;primaryKey" json:"id"` // "<document_id>_<n>"
	Collection string          `gorm:"size:255;not null;index" json:"collection"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	Source     string          `gorm:"size:500" json:"source"`
	ChunkIndex int             `gorm:"default:0" json:"chunk_index"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Chunk) TableName() string {
	return "chunks"
}
