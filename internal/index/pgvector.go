package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

// PGVector stores chunks in postgres and ranks them with the pgvector
// cosine-distance operator.
type PGVector struct {
	db       *gorm.DB
	embedder Embedder
}

func NewPGVector(db *gorm.DB, embedder Embedder) *PGVector {
	return &PGVector{db: db, embedder: embedder}
}

func (p *PGVector) EnsureCollection(ctx context.Context, name string) error {
	collection := model.Collection{Name: name}
	return p.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&collection).Error
}

func (p *PGVector) Upsert(ctx context.Context, collection string, chunks []string, meta Metadata) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := p.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	rows := make([]model.Chunk, len(chunks))
	for i, content := range chunks {
		rows[i] = model.Chunk{
			ID:         ChunkID(meta.DocumentID, i),
			Collection: collection,
			UserID:     meta.UserID,
			DocumentID: meta.DocumentID,
			Source:     meta.Source,
			ChunkIndex: i,
			Content:    content,
			Embedding:  pgvector.NewVector(vectors[i]),
		}
	}

	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

func (p *PGVector) Query(ctx context.Context, collection, query string, filter Filter, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 10
	}

	var found model.Collection
	if err := p.db.WithContext(ctx).Where("name = ?", collection).First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}

	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := pgvector.NewVector(vectors[0])

	var results []struct {
		Content  string  `gorm:"column:content"`
		Distance float64 `gorm:"column:distance"`
	}

	// Cosine distance; lowest distance first.
	err = p.db.WithContext(ctx).
		Table("chunks").
		Select("content, embedding <=> ? AS distance", queryVec).
		Where("collection = ?", collection).
		Scopes(filter.Scope).
		Order("distance ASC").
		Limit(topK).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}
	return texts, nil
}

func (p *PGVector) DeleteByDocument(ctx context.Context, collection string, documentID uuid.UUID) error {
	return p.db.WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, documentID).
		Delete(&model.Chunk{}).Error
}

func (p *PGVector) DeleteByUser(ctx context.Context, collection string, userID uuid.UUID) error {
	return p.db.WithContext(ctx).
		Where("collection = ? AND user_id = ?", collection, userID).
		Delete(&model.Chunk{}).Error
}
