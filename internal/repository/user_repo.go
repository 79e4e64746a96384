package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteCascade removes the user and everything they own in one transaction:
// chat history, chatbot/document associations, chatbots, documents, then the
// user row itself.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}

		var botIDs []uuid.UUID
		if err := tx.Model(&model.ChatBot{}).Where("user_id = ?", userID).
			Pluck("id", &botIDs).Error; err != nil {
			return err
		}
		if len(botIDs) > 0 {
			if err := tx.Exec("DELETE FROM chatbot_documents WHERE chat_bot_id IN ?", botIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.ChatBot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Document{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
