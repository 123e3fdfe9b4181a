// internal/ai/openai.go
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Sentinel errors for the two model gateways.
var (
	// ErrEmbedding indicates the embedding call failed or returned a
	// malformed response.
	ErrEmbedding = errors.New("embedding request failed")

	// ErrCompletion indicates the chat completion call failed.
	ErrCompletion = errors.New("completion request failed")
)

// Service wraps a single OpenAI client for embeddings and chat completions.
// It holds no per-request state and is safe to share across goroutines.
type Service struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	temperature    float32
}

func NewService(apiKey, chatModel, embeddingModel string, temperature float32) *Service {
	return &Service{
		client:         openai.NewClient(apiKey),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		temperature:    temperature,
	}
}

// Complete sends one prompt as a single user message and returns the
// generated text.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
