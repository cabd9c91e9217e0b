package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"document-bot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name  string
	props map[string]interface{}
}

type fakeEmitter struct {
	events []recordedEvent
}

func (f *fakeEmitter) Emit(event string, props map[string]interface{}) {
	f.events = append(f.events, recordedEvent{name: event, props: props})
}

func (f *fakeEmitter) Debug(event string, props map[string]interface{}) {
	f.Emit(event, props)
}

func (f *fakeEmitter) Error(event string, props map[string]interface{}) {
	f.Emit(event, props)
}

func (f *fakeEmitter) find(name string) *recordedEvent {
	for i := range f.events {
		if f.events[i].name == name {
			return &f.events[i]
		}
	}
	return nil
}

type stubValidator struct {
	name   string
	err    error
	called bool
}

func (s *stubValidator) Name() string { return s.name }

func (s *stubValidator) Validate(ctx context.Context, question, userKey string) error {
	s.called = true
	return s.err
}

type stubModerator struct {
	result *llm.ModerationResult
	err    error
}

func (s *stubModerator) Moderate(ctx context.Context, text string) (*llm.ModerationResult, error) {
	return s.result, s.err
}

func TestMaxLengthValidator(t *testing.T) {
	v := NewMaxLengthValidator(10)

	assert.NoError(t, v.Validate(context.Background(), "short", "user-1"))
	assert.NoError(t, v.Validate(context.Background(), strings.Repeat("a", 10), "user-1"))

	err := v.Validate(context.Background(), strings.Repeat("a", 11), "user-1")
	require.Error(t, err)
	assert.True(t, IsInvalidQuestion(err))
	assert.Equal(t, "Question is too long. Maximum length is 10 characters.", err.Error())
}

func TestMaxLengthValidatorCountsRunes(t *testing.T) {
	v := NewMaxLengthValidator(5)

	// 5 multibyte characters are within a 5-character limit.
	assert.NoError(t, v.Validate(context.Background(), "ééééé", "user-1"))
	assert.Error(t, v.Validate(context.Background(), "éééééé", "user-1"))
}

func TestChainShortCircuits(t *testing.T) {
	emitter := &fakeEmitter{}
	first := &stubValidator{name: "first", err: NewInvalidQuestionError("nope")}
	second := &stubValidator{name: "second"}
	chain := NewChain(emitter, first, second)

	err := chain.Validate(context.Background(), "question", "user-1")
	require.Error(t, err)
	assert.True(t, IsInvalidQuestion(err))
	assert.True(t, first.called)
	assert.False(t, second.called, "second validator must not run after the first fails")

	evt := emitter.find("validation_complete")
	require.NotNil(t, evt)
	assert.Equal(t, "failed", evt.props["status"])
	assert.Equal(t, "first", evt.props["validator"])
	assert.Equal(t, "nope", evt.props["reason"])
}

func TestChainAllPass(t *testing.T) {
	emitter := &fakeEmitter{}
	first := &stubValidator{name: "first"}
	second := &stubValidator{name: "second"}
	chain := NewChain(emitter, first, second)

	err := chain.Validate(context.Background(), "question", "user-1")
	assert.NoError(t, err)
	assert.True(t, first.called)
	assert.True(t, second.called)

	evt := emitter.find("validation_complete")
	require.NotNil(t, evt)
	assert.Equal(t, "passed", evt.props["status"])
}

func TestChainReturnsSystemErrorUnchanged(t *testing.T) {
	boom := errors.New("backend down")
	chain := NewChain(nil, &stubValidator{name: "broken", err: boom})

	err := chain.Validate(context.Background(), "question", "user-1")
	require.Error(t, err)
	assert.False(t, IsInvalidQuestion(err))
	assert.Equal(t, boom, err)
}

func TestModerationValidatorFlagged(t *testing.T) {
	emitter := &fakeEmitter{}
	v := NewModerationValidator(&stubModerator{
		result: &llm.ModerationResult{
			Flagged:    true,
			Categories: []string{"hate", "violence"},
			Scores:     map[string]float64{"hate": 0.92, "violence": 0.81},
		},
	}, emitter)

	err := v.Validate(context.Background(), "bad question", "user-1")
	require.Error(t, err)
	assert.True(t, IsInvalidQuestion(err))
	assert.Equal(t, "Question contains inappropriate content: hate, violence", err.Error())

	evt := emitter.find("moderation_check")
	require.NotNil(t, evt)
	assert.Equal(t, true, evt.props["flagged"])
}

func TestModerationValidatorClean(t *testing.T) {
	emitter := &fakeEmitter{}
	v := NewModerationValidator(&stubModerator{result: &llm.ModerationResult{Flagged: false}}, emitter)

	assert.NoError(t, v.Validate(context.Background(), "fine question", "user-1"))

	evt := emitter.find("moderation_check")
	require.NotNil(t, evt)
	assert.Equal(t, false, evt.props["flagged"])
}

func TestModerationValidatorBackendFailure(t *testing.T) {
	boom := errors.New("api unavailable")
	v := NewModerationValidator(&stubModerator{err: boom}, nil)

	err := v.Validate(context.Background(), "question", "user-1")
	require.Error(t, err)
	assert.False(t, IsInvalidQuestion(err), "a backend failure is not a rejection")
	assert.ErrorIs(t, err, boom)
}

func TestIsInvalidQuestionThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewInvalidQuestionError("inner"))
	assert.True(t, IsInvalidQuestion(err))
	assert.False(t, IsInvalidQuestion(errors.New("plain")))
	assert.False(t, IsInvalidQuestion(nil))
}
