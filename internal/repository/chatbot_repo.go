package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

type ChatBotRepository struct {
	db *gorm.DB
}

func NewChatBotRepository(db *gorm.DB) *ChatBotRepository {
	return &ChatBotRepository{db: db}
}

func (r *ChatBotRepository) Create(ctx context.Context, bot *model.ChatBot) error {
	return r.db.WithContext(ctx).Create(bot).Error
}

func (r *ChatBotRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatBot, error) {
	var bots []model.ChatBot
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bots).Error
	return bots, err
}

func (r *ChatBotRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.ChatBot, error) {
	var bot model.ChatBot
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("id = ? AND user_id = ?", id, userID).
		First(&bot).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bot, nil
}

func (r *ChatBotRepository) Update(ctx context.Context, bot *model.ChatBot) error {
	return r.db.WithContext(ctx).Save(bot).Error
}

// ReplaceDocuments swaps the bot's document set and marks it retrained.
func (r *ChatBotRepository) ReplaceDocuments(ctx context.Context, bot *model.ChatBot, docs []model.Document) error {
	if err := r.db.WithContext(ctx).Model(bot).Association("Documents").Replace(docs); err != nil {
		return err
	}
	return r.touchLastTrained(ctx, bot)
}

// AppendDocuments attaches additional documents and marks the bot retrained.
// Already-attached documents are not duplicated.
func (r *ChatBotRepository) AppendDocuments(ctx context.Context, bot *model.ChatBot, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(bot).Association("Documents").Append(docs); err != nil {
		return err
	}
	return r.touchLastTrained(ctx, bot)
}

func (r *ChatBotRepository) touchLastTrained(ctx context.Context, bot *model.ChatBot) error {
	now := time.Now().UTC()
	bot.LastTrained = &now
	return r.db.WithContext(ctx).Model(bot).Update("last_trained", now).Error
}

func (r *ChatBotRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM chatbot_documents WHERE chat_bot_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_bot_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ChatBot{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
