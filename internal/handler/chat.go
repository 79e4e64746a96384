package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/middleware"
	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
	"github.com/Enejivk/cleary-chat-Backend/internal/service"
	"github.com/Enejivk/cleary-chat-Backend/internal/task"
)

type ChatHandler struct {
	chat     *service.ChatService
	bots     *service.ChatBotService
	messages *repository.MessageRepository
}

func NewChatHandler(chat *service.ChatService, bots *service.ChatBotService, messages *repository.MessageRepository) *ChatHandler {
	return &ChatHandler{chat: chat, bots: bots, messages: messages}
}

type chatInput struct {
	ChatBotID uuid.UUID      `json:"chatbot_id" binding:"required"`
	Query     string         `json:"query" binding:"required"`
	History   []service.Turn `json:"history"`
}

// Chat answers one question against the bot's document set and records both
// sides of the exchange. Retrieval is scoped to the caller's own chunks, so
// a bot can never answer from another user's documents.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input chatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bot, err := h.bots.Get(c.Request.Context(), input.ChatBotID, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chatbot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.chat.Answer(c.Request.Context(), userID, bot.DocumentIDs(), input.Query, input.History)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The conversation log is not on the response path.
	botID := bot.ID
	query := input.Query
	task.Go("log-chat", func(ctx context.Context) error {
		if err := h.messages.Create(ctx, &model.ChatMessage{UserID: userID, ChatBotID: &botID, Sender: model.SenderUser, Text: query}); err != nil {
			return err
		}
		return h.messages.Create(ctx, &model.ChatMessage{UserID: userID, ChatBotID: &botID, Sender: model.SenderBot, Text: answer})
	})

	c.JSON(http.StatusOK, gin.H{
		"chatbot_id": bot.ID,
		"answer":     answer,
	})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if _, err := h.bots.Get(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chatbot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	msgs, err := h.messages.FindByChatBot(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if _, err := h.bots.Get(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chatbot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.messages.DeleteByChatBot(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
