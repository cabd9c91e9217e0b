package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role       string
	Content    string
	SessionKey string `gorm:"index"`
	CreatedAt  time.Time
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
