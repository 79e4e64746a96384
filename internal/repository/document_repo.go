package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// FindByIDAndUser loads a document only when the caller owns it. A document
// owned by someone else is indistinguishable from a missing one.
func (r *DocumentRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// FindByIDsAndUser resolves a set of document ids to rows the caller owns.
// Ids owned by other users are silently dropped.
func (r *DocumentRepository) FindByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&docs).Error
	return docs, err
}

// Delete removes the document row and its chatbot associations.
func (r *DocumentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM chatbot_documents WHERE document_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
