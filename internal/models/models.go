// internal/models/models.go
package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Record types stored in the vector index.
const (
	DocTypeMessage        = "discord-message"
	DocTypeChannelHistory = "discord-channel-history"
)

// DocumentRecord is one ingested passage in the vector index, keyed by the
// source Discord message id. Records are written once and never mutated;
// re-ingesting the same message replaces the prior record.
type DocumentRecord struct {
	ID        uint   `gorm:"primaryKey"`
	DocID     string `gorm:"uniqueIndex;not null"` // source message id
	Type      string `gorm:"not null"`
	Author    string `gorm:"not null"`
	GuildID   string
	ChannelID string `gorm:"not null"`
	Content   string `gorm:"type:text"`
	// SentAt is set for single-message ingestion and nil for channel
	// history batches.
	SentAt    *time.Time
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI embedding size
	CreatedAt time.Time
}

// Match is one similarity-search hit. The raw embedding is never included
// in results.
type Match struct {
	DocID     string
	Type      string
	Author    string
	ChannelID string
	Content   string
	Score     float64
}
