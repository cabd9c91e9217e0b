package contract

import (
	"context"

	"document-bot-be/internal/entity"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindBySessionKey(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error)
	DeleteBySessionKey(ctx context.Context, sessionKey string) error
}
