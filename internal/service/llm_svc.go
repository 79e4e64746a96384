package service

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a structured prompt.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter turns a structured prompt into a natural-language answer.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Turn) (string, error)
}

// LLMService is the OpenAI-backed ChatCompleter.
type LLMService struct {
	client openai.Client
	model  string
}

func NewLLMService(apiKey, baseURL, model string) *LLMService {
	if model == "" {
		model = "gpt-4o"
	}

	options := []option.RequestOption{}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		options = append(options, option.WithAPIKey(apiKey))
	}

	return &LLMService{client: openai.NewClient(options...), model: model}
}

func (s *LLMService) Complete(ctx context.Context, messages []Turn) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case RoleUser:
			params = append(params, openai.UserMessage(msg.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		}
	}
	if len(params) == 0 {
		return "", fmt.Errorf("prompt is empty")
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: params,
		Model:    s.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("client didn't return any content choices")
	}

	return resp.Choices[0].Message.Content, nil
}
