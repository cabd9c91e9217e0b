package implementation

import (
	"context"

	"document-bot-be/internal/entity"
	"document-bot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{db: db}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ChatMessageRepositoryImpl) FindBySessionKey(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	var messages []*entity.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) DeleteBySessionKey(ctx context.Context, sessionKey string) error {
	return r.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		Delete(&entity.ChatMessage{}).Error
}
