package service

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EmbeddingService converts text into vectors through an OpenAI-compatible
// embeddings endpoint.
type EmbeddingService struct {
	client     openai.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(apiKey, baseURL, model string, dimensions int) *EmbeddingService {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimensions == 0 {
		dimensions = 1536
	}

	options := []option.RequestOption{option.WithBaseURL(baseURL)}
	if apiKey != "" {
		options = append(options, option.WithAPIKey(apiKey))
	}

	return &EmbeddingService{
		client:     openai.NewClient(options...),
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates embeddings for the given texts, one vector per text in
// input order.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		vectors[data.Index] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding dimensions
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}
