// internal/ai/embeddings.go
package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Embed creates vector embeddings for multiple texts in one batched call.
// The result is order-preserving: embeddings[i] corresponds to texts[i].
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", ErrEmbedding)
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: s.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: count mismatch, got %d for %d texts",
			ErrEmbedding, len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}
	return embeddings, nil
}
