package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Enejivk/cleary-chat-Backend/internal/config"
	"github.com/Enejivk/cleary-chat-Backend/internal/model"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB, embeddingDims int) error {
	// The chunks table stores pgvector embeddings.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.ChatBot{},
		&model.ChatMessage{},
		&model.Collection{},
		&model.Chunk{},
	); err != nil {
		return err
	}

	// The model tag declares vector(1536); align the column with the
	// configured embedding width when it differs.
	if embeddingDims > 0 && embeddingDims != 1536 {
		return db.Exec(fmt.Sprintf(
			"ALTER TABLE chunks ALTER COLUMN embedding TYPE vector(%d)", embeddingDims,
		)).Error
	}
	return nil
}
