package service

import (
	"context"
	"fmt"
	"time"

	"document-bot-be/internal/constant"
	"document-bot-be/internal/dto"
	"document-bot-be/internal/entity"
	"document-bot-be/internal/repository/contract"
	"document-bot-be/pkg/assistant"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/uploader"
	"document-bot-be/pkg/validation"

	"document-bot-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type IAssistantService interface {
	Ask(ctx context.Context, sessionKey string, req *dto.AskRequest, fileName string, fileContent []byte) (*dto.AskResponse, error)
	GetMessages(ctx context.Context, sessionKey string) ([]dto.GetMessagesResponse, error)
	ClearMessages(ctx context.Context, sessionKey string) error
}

type assistantService struct {
	assistant   *assistant.Assistant
	uploader    *uploader.Uploader
	messageRepo contract.ChatMessageRepository
	logger      logger.ILogger
}

func NewAssistantService(
	asst *assistant.Assistant,
	up *uploader.Uploader,
	messageRepo contract.ChatMessageRepository,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		assistant:   asst,
		uploader:    up,
		messageRepo: messageRepo,
		logger:      log,
	}
}

func (s *assistantService) Ask(ctx context.Context, sessionKey string, req *dto.AskRequest, fileName string, fileContent []byte) (*dto.AskResponse, error) {
	if err := s.saveMessage(ctx, sessionKey, constant.ChatMessageRoleUser, req.Question); err != nil {
		// History is best effort; the question still gets answered.
		s.logger.Warn("assistant", "failed to persist user message", map[string]interface{}{"error": err.Error()})
	}

	var newDocs []store.Document
	if len(fileContent) > 0 {
		docs, err := s.uploader.Upload(ctx, fileName, fileContent)
		if err != nil {
			return nil, fmt.Errorf("upload document %q: %w", fileName, err)
		}
		newDocs = docs
	}

	answer, err := s.assistant.Answer(ctx, req.Question, newDocs, sessionKey)
	if err != nil {
		if !validation.IsInvalidQuestion(err) {
			s.logger.Error("assistant", "answer pipeline failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	if err := s.saveMessage(ctx, sessionKey, constant.ChatMessageRoleAssistant, answer); err != nil {
		s.logger.Warn("assistant", "failed to persist assistant message", map[string]interface{}{"error": err.Error()})
	}

	return &dto.AskResponse{Answer: answer}, nil
}

func (s *assistantService) GetMessages(ctx context.Context, sessionKey string) ([]dto.GetMessagesResponse, error) {
	messages, err := s.messageRepo.FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	res := make([]dto.GetMessagesResponse, len(messages))
	for i, m := range messages {
		res[i] = dto.GetMessagesResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return res, nil
}

func (s *assistantService) ClearMessages(ctx context.Context, sessionKey string) error {
	return s.messageRepo.DeleteBySessionKey(ctx, sessionKey)
}

func (s *assistantService) saveMessage(ctx context.Context, sessionKey, role, content string) error {
	return s.messageRepo.Create(ctx, &entity.ChatMessage{
		Id:         uuid.New(),
		Role:       role,
		Content:    content,
		SessionKey: sessionKey,
		CreatedAt:  time.Now(),
	})
}
