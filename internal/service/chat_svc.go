package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
)

// retrievalTopK is how many chunks a single question pulls from the index.
const retrievalTopK = 13

const answerSystemPrompt = `You are a helpful, knowledgeable, and conversational assistant on a website.

Your job is to assist users by answering their questions naturally and accurately, using the specific information the user provides during the conversation.

You must:
- Use only the information provided in the user message to answer the question.
- If the answer is not clearly supported by the provided information, respond politely with something like "I'm afraid we don't have that information at the moment."
- Sound like a human. Be friendly, casual, and clear, with natural phrasing and simple explanations.
- Keep your answers short and helpful, like you're chatting with the user in real time.
- Do not mention that you are an AI, a language model, or that the user provided a context.
- Do not guess, make up facts, or go beyond the given information.
- Do not refer to "the document" or "context". Just answer as if you know the answer directly.

You are part of the team, here to make things easier for the user.`

// ChatService answers a question against the caller's permitted documents.
type ChatService struct {
	idx        index.Index
	completer  ChatCompleter
	collection string
	logger     *slog.Logger
}

func NewChatService(idx index.Index, completer ChatCompleter, collection string) *ChatService {
	return &ChatService{
		idx:        idx,
		completer:  completer,
		collection: collection,
		logger:     slog.Default().With("component", "chat"),
	}
}

// Answer retrieves context scoped to userID and documentIDs, then asks the
// model. An empty document set skips retrieval entirely and answers from an
// empty context, so a bot with no documents can still respond.
func (s *ChatService) Answer(ctx context.Context, userID uuid.UUID, documentIDs []uuid.UUID, query string, history []Turn) (string, error) {
	contextText, err := s.retrieve(ctx, userID, documentIDs, query)
	if err != nil {
		return "", err
	}

	messages := make([]Turn, 0, len(history)+2)
	messages = append(messages, Turn{Role: RoleSystem, Content: answerSystemPrompt})
	for _, turn := range history {
		switch turn.Role {
		case RoleSystem, RoleUser, RoleAssistant:
			messages = append(messages, turn)
		}
	}
	messages = append(messages, Turn{
		Role:    RoleUser,
		Content: fmt.Sprintf("%s\n\nContext:\n%s", query, contextText),
	})

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *ChatService) retrieve(ctx context.Context, userID uuid.UUID, documentIDs []uuid.UUID, query string) (string, error) {
	if len(documentIDs) == 0 {
		return "", nil
	}

	if err := s.idx.EnsureCollection(ctx, s.collection); err != nil {
		return "", fmt.Errorf("ensure collection %s: %w", s.collection, err)
	}

	filter := index.TenantFilter(userID, documentIDs)
	chunks, err := s.idx.Query(ctx, s.collection, query, filter, retrievalTopK)
	if errors.Is(err, index.ErrCollectionNotFound) {
		// Nothing indexed yet; answer from an empty context.
		s.logger.Warn("collection missing at query time", "collection", s.collection)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	return strings.Join(chunks, "\n\n"), nil
}
