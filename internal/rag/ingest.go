// internal/rag/ingest.go
package rag

import (
	"context"
	"fmt"
	"time"

	"upsy-bot/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// Message is one chat message handed to ingestion, already detached from
// the platform's event type.
type Message struct {
	ID        string
	Content   string
	Author    string
	GuildID   string
	ChannelID string
	SentAt    time.Time
}

// Ingestor converts chat messages into vector records. Both entry points
// are fire-and-forget: failures are logged, never returned.
type Ingestor struct {
	embedder    Embedder
	index       VectorIndex
	callTimeout time.Duration
}

func NewIngestor(embedder Embedder, index VectorIndex, callTimeout time.Duration) *Ingestor {
	return &Ingestor{
		embedder:    embedder,
		index:       index,
		callTimeout: callTimeout,
	}
}

// AddDocument ingests a single message. The stored text carries Date and
// Author suffixes so retrieval can surface who said it and when.
func (ing *Ingestor) AddDocument(ctx context.Context, msg Message) {
	augmented := fmt.Sprintf("%s\nDate: %s\nAuthor: %s",
		msg.Content, msg.SentAt.Format(time.RFC1123), msg.Author)

	ectx, cancel := ing.bound(ctx)
	vectors, err := ing.embedder.Embed(ectx, []string{augmented})
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("ingestion: embedding failed, skipping message")
		return
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return
	}

	sentAt := msg.SentAt
	record := models.DocumentRecord{
		DocID:     msg.ID,
		Type:      models.DocTypeMessage,
		Author:    msg.Author,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Content:   augmented,
		SentAt:    &sentAt,
		Embedding: pgvector.NewVector(vectors[0]),
	}

	uctx, cancel := ing.bound(ctx)
	err = ing.index.Upsert(uctx, []models.DocumentRecord{record})
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("ingestion: upsert failed")
	}
}

// AddDocuments ingests a batch of messages with one embedding call over
// their raw contents. If fewer vectors come back than messages, only the
// matched prefix is upserted; a record is never written without its vector.
func (ing *Ingestor) AddDocuments(ctx context.Context, msgs []Message) {
	if len(msgs) == 0 {
		return
	}

	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Content
	}

	ectx, cancel := ing.bound(ctx)
	vectors, err := ing.embedder.Embed(ectx, texts)
	cancel()
	if err != nil {
		log.Warn().Err(err).Int("count", len(msgs)).Msg("ingestion: batch embedding failed, dropping batch")
		return
	}

	n := len(msgs)
	if len(vectors) < n {
		log.Warn().
			Int("messages", len(msgs)).
			Int("embeddings", len(vectors)).
			Msg("ingestion: embedding count mismatch, dropping unmatched messages")
		n = len(vectors)
	}

	records := make([]models.DocumentRecord, 0, n)
	for i := 0; i < n; i++ {
		if len(vectors[i]) == 0 {
			continue
		}
		records = append(records, models.DocumentRecord{
			DocID:     msgs[i].ID,
			Type:      models.DocTypeChannelHistory,
			Author:    msgs[i].Author,
			GuildID:   msgs[i].GuildID,
			ChannelID: msgs[i].ChannelID,
			Content:   msgs[i].Content,
			Embedding: pgvector.NewVector(vectors[i]),
		})
	}
	if len(records) == 0 {
		return
	}

	uctx, cancel := ing.bound(ctx)
	err = ing.index.Upsert(uctx, records)
	cancel()
	if err != nil {
		log.Warn().Err(err).Int("count", len(records)).Msg("ingestion: batch upsert failed")
	}
}

func (ing *Ingestor) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ing.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, ing.callTimeout)
}
