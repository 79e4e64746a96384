package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByChatBot returns the full conversation in chronological order.
func (r *MessageRepository) FindByChatBot(ctx context.Context, chatBotID, userID uuid.UUID) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_bot_id = ? AND user_id = ?", chatBotID, userID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) DeleteByChatBot(ctx context.Context, chatBotID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("chat_bot_id = ? AND user_id = ?", chatBotID, userID).
		Delete(&model.ChatMessage{}).Error
}

func (r *MessageRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ChatMessage{}).Error
}
