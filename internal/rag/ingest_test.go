package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"upsy-bot/internal/models"
	"upsy-bot/internal/rag"
)

func testMessage(id, content string) rag.Message {
	return rag.Message{
		ID:        id,
		Content:   content,
		Author:    "alice",
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		SentAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestIngestor_AddDocument(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	ing := rag.NewIngestor(embedder, index, time.Second)

	ing.AddDocument(context.Background(), testMessage("msg-1", "we deploy on fridays"))

	if len(embedder.calls) != 1 || len(embedder.calls[0]) != 1 {
		t.Fatalf("embedder calls = %v, want one single-element batch", embedder.calls)
	}
	augmented := embedder.calls[0][0]
	if !strings.HasPrefix(augmented, "we deploy on fridays") {
		t.Errorf("augmented text does not start with the content: %q", augmented)
	}
	if !strings.Contains(augmented, "Date: ") || !strings.Contains(augmented, "Author: alice") {
		t.Errorf("augmented text missing Date/Author suffixes: %q", augmented)
	}

	if len(index.upserted) != 1 || len(index.upserted[0]) != 1 {
		t.Fatalf("upserted = %v, want one batch with one record", index.upserted)
	}
	rec := index.upserted[0][0]
	if rec.DocID != "msg-1" {
		t.Errorf("DocID = %q, want msg-1", rec.DocID)
	}
	if rec.Type != models.DocTypeMessage {
		t.Errorf("Type = %q, want %q", rec.Type, models.DocTypeMessage)
	}
	if rec.SentAt == nil {
		t.Error("SentAt = nil, want the message timestamp")
	}
	if rec.Content != augmented {
		t.Errorf("stored content %q differs from embedded text %q", rec.Content, augmented)
	}
}

func TestIngestor_AddDocument_EmbeddingFailureIsSilent(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{}
	ing := rag.NewIngestor(&fakeEmbedder{err: errors.New("down")}, index, time.Second)

	ing.AddDocument(context.Background(), testMessage("msg-1", "content"))

	if len(index.upserted) != 0 {
		t.Errorf("upserted %d batches after embedding failure, want 0", len(index.upserted))
	}
}

func TestIngestor_AddDocuments(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	ing := rag.NewIngestor(embedder, index, time.Second)

	msgs := []rag.Message{
		testMessage("msg-1", "first"),
		testMessage("msg-2", "second"),
		testMessage("msg-3", "third"),
	}
	ing.AddDocuments(context.Background(), msgs)

	if len(embedder.calls) != 1 || len(embedder.calls[0]) != 3 {
		t.Fatalf("embedder calls = %v, want one batch of 3", embedder.calls)
	}
	if embedder.calls[0][0] != "first" {
		t.Errorf("batch embeds raw content, got %q", embedder.calls[0][0])
	}

	if len(index.upserted) != 1 || len(index.upserted[0]) != 3 {
		t.Fatalf("upserted = %v, want one batch of 3 records", index.upserted)
	}
	for i, rec := range index.upserted[0] {
		if rec.DocID != msgs[i].ID {
			t.Errorf("record[%d].DocID = %q, want %q", i, rec.DocID, msgs[i].ID)
		}
		if rec.Type != models.DocTypeChannelHistory {
			t.Errorf("record[%d].Type = %q, want %q", i, rec.Type, models.DocTypeChannelHistory)
		}
		if rec.SentAt != nil {
			t.Errorf("record[%d].SentAt = %v, want nil for batch ingestion", i, rec.SentAt)
		}
	}
}

func TestIngestor_AddDocuments_PartialEmbeddings(t *testing.T) {
	t.Parallel()

	// Two vectors for three messages: only the matched prefix is stored.
	embedder := &fakeEmbedder{vectors: [][]float32{{0.1}, {0.2}}}
	index := &fakeIndex{}
	ing := rag.NewIngestor(embedder, index, time.Second)

	ing.AddDocuments(context.Background(), []rag.Message{
		testMessage("msg-1", "first"),
		testMessage("msg-2", "second"),
		testMessage("msg-3", "third"),
	})

	if len(index.upserted) != 1 || len(index.upserted[0]) != 2 {
		t.Fatalf("upserted = %v, want one batch of 2 records", index.upserted)
	}
	if index.upserted[0][0].DocID != "msg-1" || index.upserted[0][1].DocID != "msg-2" {
		t.Errorf("upserted ids = %q, %q, want msg-1, msg-2",
			index.upserted[0][0].DocID, index.upserted[0][1].DocID)
	}
}

func TestIngestor_AddDocuments_EmptyBatch(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	ing := rag.NewIngestor(embedder, index, time.Second)

	ing.AddDocuments(context.Background(), nil)

	if len(embedder.calls) != 0 || len(index.upserted) != 0 {
		t.Error("empty batch must not reach the embedder or the index")
	}
}

func TestIngestor_AddDocuments_EmbeddingFailureDropsBatch(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{}
	ing := rag.NewIngestor(&fakeEmbedder{err: errors.New("down")}, index, time.Second)

	ing.AddDocuments(context.Background(), []rag.Message{testMessage("msg-1", "first")})

	if len(index.upserted) != 0 {
		t.Errorf("upserted %d batches after embedding failure, want 0", len(index.upserted))
	}
}
