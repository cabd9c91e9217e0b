package service

import (
	"context"
	"testing"

	"document-bot-be/internal/constant"
	"document-bot-be/internal/dto"
	"document-bot-be/internal/entity"
	"document-bot-be/pkg/assistant"
	"document-bot-be/pkg/llm"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMessageRepo struct {
	messages []*entity.ChatMessage
}

func (m *memoryMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *memoryMessageRepo) FindBySessionKey(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionKey == sessionKey {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memoryMessageRepo) DeleteBySessionKey(ctx context.Context, sessionKey string) error {
	var kept []*entity.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionKey != sessionKey {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type staticIndex struct{}

func (staticIndex) SimilaritySearch(ctx context.Context, query string, k int) ([]store.Document, error) {
	return nil, nil
}

type staticValidator struct {
	err error
}

func (s staticValidator) Validate(ctx context.Context, question, userKey string) error {
	return s.err
}

type staticLLM struct{}

func (staticLLM) Model() string { return "static" }

func (staticLLM) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (*llm.StructuredResponse, error) {
	return &llm.StructuredResponse{Content: []byte(`{"answer":"the answer","citations":[]}`)}, nil
}

type noopTracker struct{}

func (noopTracker) RecordFlagged(ctx context.Context, userKey string)      {}
func (noopTracker) CheckRecovery(ctx context.Context, userKey string) bool { return false }
func (noopTracker) RecordSuccess(ctx context.Context, userKey string) bool { return false }

func newTestService(repo *memoryMessageRepo, validatorErr error) IAssistantService {
	asst := assistant.New(staticIndex{}, staticValidator{err: validatorErr}, staticLLM{}, noopTracker{}, nil)
	return NewAssistantService(asst, nil, repo, noopLogger{})
}

func TestAskPersistsConversation(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := newTestService(repo, nil)

	res, err := svc.Ask(context.Background(), "session-1", &dto.AskRequest{Question: "what?"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "the answer\n\n", res.Answer)

	messages, err := svc.GetMessages(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "what?", messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, messages[1].Role)
	assert.Equal(t, "the answer\n\n", messages[1].Content)
}

func TestAskRejectedQuestionKeepsUserMessageOnly(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := newTestService(repo, validation.NewInvalidQuestionError("nope"))

	_, err := svc.Ask(context.Background(), "session-1", &dto.AskRequest{Question: "bad"}, "", nil)
	require.Error(t, err)
	assert.True(t, validation.IsInvalidQuestion(err))

	messages, err := svc.GetMessages(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, messages, 1, "no assistant reply is stored for a rejected question")
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
}

func TestClearMessagesScopedToSession(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Ask(context.Background(), "session-1", &dto.AskRequest{Question: "one"}, "", nil)
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "session-2", &dto.AskRequest{Question: "two"}, "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.ClearMessages(context.Background(), "session-1"))

	messages, err := svc.GetMessages(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	messages, err = svc.GetMessages(context.Background(), "session-2")
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
