// internal/database/db.go
package database

import (
	"context"
	"errors"
	"fmt"

	"upsy-bot/internal/models"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrIndex indicates a similarity-search or upsert failure.
var ErrIndex = errors.New("vector index operation failed")

type DB struct {
	*gorm.DB
}

func NewDB(host, user, password, dbname string, port int) (*DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Enable pgvector extension
	if err := gormDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, err
	}

	// Auto migrate
	if err := gormDB.AutoMigrate(&models.DocumentRecord{}); err != nil {
		return nil, err
	}

	return &DB{gormDB}, nil
}

// Upsert writes records keyed by doc_id, replacing any prior record and
// vector stored for the same id.
func (db *DB) Upsert(ctx context.Context, records []models.DocumentRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_id"}},
		UpdateAll: true,
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	return nil
}

// Query returns the topK nearest records to the given embedding, nearest
// first, with the distance reported as Score.
func (db *DB) Query(ctx context.Context, embedding []float32, topK int) ([]models.Match, error) {
	vec := pgvector.NewVector(embedding)

	var matches []models.Match
	err := db.WithContext(ctx).
		Model(&models.DocumentRecord{}).
		Select("doc_id, type, author, channel_id, content, embedding <-> ? AS score", vec).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		}).
		Limit(topK).
		Scan(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndex, err)
	}
	return matches, nil
}
