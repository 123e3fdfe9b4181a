// Package rag implements the retrieval-augmented response pipeline: turning
// an incoming question into a vector query, blending retrieved context with
// recent conversation history, invoking the model and persisting the turn.
package rag

import (
	"context"

	"upsy-bot/internal/models"
)

// Embedder converts texts to fixed-length vectors, one per input text,
// order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates text from a single rendered prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VectorIndex is the similarity-search service holding ingested documents.
type VectorIndex interface {
	Query(ctx context.Context, embedding []float32, topK int) ([]models.Match, error)
	Upsert(ctx context.Context, records []models.DocumentRecord) error
}

// HistoryStore is the per-conversation turn log, newest-first.
type HistoryStore interface {
	AppendLine(ctx context.Context, key, line string) error
	RecentLines(ctx context.Context, key string, n int) ([]string, error)
}
