package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
)

// CreateChatBotInput carries the chatbot creation form. Document ids that
// the caller does not own are dropped silently.
type CreateChatBotInput struct {
	Name           string        `json:"name" binding:"required"`
	SystemPrompt   string        `json:"system_prompt"`
	WelcomeMessage string        `json:"welcome_message"`
	Theme          string        `json:"theme"`
	PrimaryColor   string        `json:"primary_color"`
	Settings       model.JSONMap `json:"settings"`
	DocumentIDs    []uuid.UUID   `json:"document_ids"`
}

// UpdateChatBotInput updates presentation fields and optionally replaces the
// document set. A nil DocumentIDs leaves the current set alone; an empty
// non-nil slice detaches everything.
type UpdateChatBotInput struct {
	Name           string        `json:"name"`
	SystemPrompt   string        `json:"system_prompt"`
	WelcomeMessage string        `json:"welcome_message"`
	Theme          string        `json:"theme"`
	PrimaryColor   string        `json:"primary_color"`
	Settings       model.JSONMap `json:"settings"`
	DocumentIDs    *[]uuid.UUID  `json:"document_ids"`
}

// ChatBotService manages per-user chatbots and their document sets.
type ChatBotService struct {
	bots   *repository.ChatBotRepository
	docs   *repository.DocumentRepository
	logger *slog.Logger
}

func NewChatBotService(bots *repository.ChatBotRepository, docs *repository.DocumentRepository) *ChatBotService {
	return &ChatBotService{
		bots:   bots,
		docs:   docs,
		logger: slog.Default().With("component", "chatbot"),
	}
}

func (s *ChatBotService) Create(ctx context.Context, userID uuid.UUID, input CreateChatBotInput) (*model.ChatBot, error) {
	owned, err := s.docs.FindByIDsAndUser(ctx, input.DocumentIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve documents: %w", err)
	}

	bot := &model.ChatBot{
		UserID:         userID,
		Name:           input.Name,
		SystemPrompt:   input.SystemPrompt,
		WelcomeMessage: input.WelcomeMessage,
		Theme:          input.Theme,
		PrimaryColor:   input.PrimaryColor,
		Settings:       input.Settings,
		Documents:      owned,
	}
	if len(owned) > 0 {
		now := time.Now().UTC()
		bot.LastTrained = &now
	}
	if err := s.bots.Create(ctx, bot); err != nil {
		return nil, fmt.Errorf("create chatbot: %w", err)
	}

	s.logger.Info("chatbot created", "chatbot_id", bot.ID, "user_id", userID, "documents", len(owned))
	return bot, nil
}

func (s *ChatBotService) List(ctx context.Context, userID uuid.UUID) ([]model.ChatBot, error) {
	return s.bots.FindByUser(ctx, userID)
}

func (s *ChatBotService) Get(ctx context.Context, id, userID uuid.UUID) (*model.ChatBot, error) {
	bot, err := s.bots.FindByIDAndUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return bot, err
}

// Update changes presentation fields and, when DocumentIDs is set, replaces
// the document set. Replacing the set marks the bot retrained.
func (s *ChatBotService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateChatBotInput) (*model.ChatBot, error) {
	bot, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		bot.Name = input.Name
	}
	if input.SystemPrompt != "" {
		bot.SystemPrompt = input.SystemPrompt
	}
	if input.WelcomeMessage != "" {
		bot.WelcomeMessage = input.WelcomeMessage
	}
	if input.Theme != "" {
		bot.Theme = input.Theme
	}
	if input.PrimaryColor != "" {
		bot.PrimaryColor = input.PrimaryColor
	}
	if input.Settings != nil {
		bot.Settings = input.Settings
	}
	if err := s.bots.Update(ctx, bot); err != nil {
		return nil, fmt.Errorf("update chatbot: %w", err)
	}

	if input.DocumentIDs != nil {
		owned, err := s.docs.FindByIDsAndUser(ctx, *input.DocumentIDs, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve documents: %w", err)
		}
		if err := s.bots.ReplaceDocuments(ctx, bot, owned); err != nil {
			return nil, fmt.Errorf("replace documents: %w", err)
		}
		bot.Documents = owned
	}
	return bot, nil
}

// AddDocuments attaches more of the caller's documents to the bot.
func (s *ChatBotService) AddDocuments(ctx context.Context, id, userID uuid.UUID, documentIDs []uuid.UUID) (*model.ChatBot, error) {
	bot, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.docs.FindByIDsAndUser(ctx, documentIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve documents: %w", err)
	}

	// Skip documents already attached so the association stays clean.
	attached := make(map[uuid.UUID]bool, len(bot.Documents))
	for _, doc := range bot.Documents {
		attached[doc.ID] = true
	}
	fresh := owned[:0]
	for _, doc := range owned {
		if !attached[doc.ID] {
			fresh = append(fresh, doc)
		}
	}

	if err := s.bots.AppendDocuments(ctx, bot, fresh); err != nil {
		return nil, fmt.Errorf("attach documents: %w", err)
	}
	return s.Get(ctx, id, userID)
}

func (s *ChatBotService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := s.bots.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
