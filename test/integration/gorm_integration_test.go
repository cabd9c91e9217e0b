package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"document-bot-be/internal/entity"
	"document-bot-be/internal/repository/implementation"
	"document-bot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Chat Message Roundtrip", func(t *testing.T) {
		repo := implementation.NewChatMessageRepository(gormDB)
		sessionKey := "it-" + uuid.NewString()

		err := repo.Create(context.Background(), &entity.ChatMessage{
			Id:         uuid.New(),
			Role:       "user",
			Content:    "integration test question",
			SessionKey: sessionKey,
		})
		assert.NoError(t, err)

		messages, err := repo.FindBySessionKey(context.Background(), sessionKey)
		assert.NoError(t, err)
		assert.Len(t, messages, 1)

		err = repo.DeleteBySessionKey(context.Background(), sessionKey)
		assert.NoError(t, err)

		messages, err = repo.FindBySessionKey(context.Background(), sessionKey)
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("Document Chunk Table Exists", func(t *testing.T) {
		var count int64
		err := gormDB.Model(&entity.DocumentChunk{}).Count(&count).Error
		assert.NoError(t, err)
		t.Logf("DocumentChunk count: %d", count)
	})
}
