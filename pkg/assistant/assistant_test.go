package assistant

import (
	"context"
	"errors"
	"testing"

	"document-bot-be/pkg/llm"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/validation"

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

type fakeIndex struct {
	docs    []store.Document
	err     error
	queries []string
}

func (f *fakeIndex) SimilaritySearch(ctx context.Context, query string, k int) ([]store.Document, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeValidator struct {
	err error
}

func (f *fakeValidator) Validate(ctx context.Context, question, userKey string) error {
	return f.err
}

type fakeLLM struct {
	content string
	err     error
	usage   *llm.Usage
	lastReq llm.StructuredRequest
}

func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (*llm.StructuredResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.StructuredResponse{Content: []byte(f.content), Usage: f.usage}, nil
}

type fakeTracker struct {
	flaggedCalls  int
	recoveryState bool
	successResult bool
}

func (f *fakeTracker) RecordFlagged(ctx context.Context, userKey string) { f.flaggedCalls++ }

func (f *fakeTracker) CheckRecovery(ctx context.Context, userKey string) bool {
	return f.recoveryState
}

func (f *fakeTracker) RecordSuccess(ctx context.Context, userKey string) bool {
	return f.successResult
}

func doc(content, source string) store.Document {
	return store.Document{
		Content:  content,
		Origin:   store.OriginExisting,
		Metadata: map[string]interface{}{"source": source},
	}
}

func TestAnswerFormatsCitations(t *testing.T) {
	index := &fakeIndex{docs: []store.Document{doc("ctx one", "a.txt"), doc("ctx two", "b.txt")}}
	model := &fakeLLM{content: `{"answer":"42","citations":[{"quote":"the answer is 42"}]}`}
	emitter := &fakeEmitter{}
	tracker := &fakeTracker{}

	a := New(index, &fakeValidator{}, model, tracker, emitter)

	answer, err := a.Answer(context.Background(), "what is the answer?", nil, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "42\n\n\"the answer is 42\"", answer)

	require.Len(t, index.queries, 1)
	assert.Equal(t, "what is the answer?", index.queries[0])

	attempt := emitter.find("question_attempt")
	require.NotNil(t, attempt)
	assert.Equal(t, false, attempt.props["flagged"])

	call := emitter.find("llm_call")
	require.NotNil(t, call)
	assert.Equal(t, true, call.props["ok"])
	assert.Equal(t, "fake-model", call.props["model"])

	assert.NotNil(t, emitter.find("answer"))
}

func TestAnswerWithoutCitations(t *testing.T) {
	index := &fakeIndex{}
	model := &fakeLLM{content: `{"answer":"I don't know.","citations":[]}`}

	a := New(index, &fakeValidator{}, model, &fakeTracker{}, nil)

	answer, err := a.Answer(context.Background(), "anything?", nil, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.\n\n", answer)
}

func TestInvalidQuestionSkipsRetrieval(t *testing.T) {
	index := &fakeIndex{docs: []store.Document{doc("never used", "a.txt")}}
	emitter := &fakeEmitter{}
	tracker := &fakeTracker{}
	rejection := validation.NewInvalidQuestionError("Question is too long. Maximum length is 10 characters.")

	a := New(index, &fakeValidator{err: rejection}, &fakeLLM{}, tracker, emitter)

	_, err := a.Answer(context.Background(), "way too long", nil, "user-1")
	require.Error(t, err)
	assert.True(t, validation.IsInvalidQuestion(err))
	assert.Equal(t, rejection, err, "rejection must reach the caller unchanged")

	assert.Empty(t, index.queries, "retrieval must not run for a rejected question")
	assert.Equal(t, 1, tracker.flaggedCalls)

	attempt := emitter.find("question_attempt")
	require.NotNil(t, attempt)
	assert.Equal(t, true, attempt.props["flagged"])
	assert.Equal(t, rejection.Error(), attempt.props["validator_failed"])
}

func TestSystemValidationError(t *testing.T) {
	boom := errors.New("moderation check failed: api down")
	tracker := &fakeTracker{}
	index := &fakeIndex{}

	a := New(index, &fakeValidator{err: boom}, &fakeLLM{}, tracker, nil)

	_, err := a.Answer(context.Background(), "question", nil, "user-1")
	require.Error(t, err)
	assert.False(t, validation.IsInvalidQuestion(err))
	assert.Equal(t, 0, tracker.flaggedCalls, "system failures must not flag the user")
	assert.Empty(t, index.queries)
}

func TestRecoveryFlow(t *testing.T) {
	emitter := &fakeEmitter{}
	tracker := &fakeTracker{successResult: true}
	model := &fakeLLM{content: `{"answer":"ok","citations":[]}`}

	a := New(&fakeIndex{}, &fakeValidator{}, model, tracker, emitter)

	_, err := a.Answer(context.Background(), "back to normal", nil, "user-1")
	require.NoError(t, err)

	attempt := emitter.find("question_attempt")
	require.NotNil(t, attempt)
	assert.Equal(t, false, attempt.props["flagged"])
	assert.Equal(t, true, attempt.props["is_recovery"])
}

func TestRetrievalFailure(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection refused")}

	a := New(index, &fakeValidator{}, &fakeLLM{}, &fakeTracker{}, nil)

	_, err := a.Answer(context.Background(), "question", nil, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarity search failed")
}

func TestGenerationFailureRecordsCall(t *testing.T) {
	emitter := &fakeEmitter{}
	model := &fakeLLM{err: errors.New("model overloaded")}

	a := New(&fakeIndex{}, &fakeValidator{}, model, &fakeTracker{}, emitter)

	_, err := a.Answer(context.Background(), "question", nil, "user-1")
	require.Error(t, err)

	call := emitter.find("llm_call")
	require.NotNil(t, call)
	assert.Equal(t, false, call.props["ok"])
}

func TestGenerationMalformedOutput(t *testing.T) {
	model := &fakeLLM{content: `not json`}

	a := New(&fakeIndex{}, &fakeValidator{}, model, &fakeTracker{}, nil)

	_, err := a.Answer(context.Background(), "question", nil, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode structured answer")
}

func TestPromptNumbersNewDocumentsAfterExisting(t *testing.T) {
	existing := []store.Document{doc("alpha", "a.txt"), doc("beta", "b.txt")}
	uploaded := []store.Document{
		{Content: "gamma", Origin: store.OriginNew},
		{Content: "delta", Origin: store.OriginNew},
	}

	prompt := buildSystemPrompt(existing, uploaded)

	assert.Contains(t, prompt, "You have 4 sources available.")
	assert.Contains(t, prompt, "[Source 1]\nalpha")
	assert.Contains(t, prompt, "[Source 2]\nbeta")
	assert.Contains(t, prompt, "[Source 3]\ngamma")
	assert.Contains(t, prompt, "[Source 4]\ndelta")
	assert.NotContains(t, prompt, "None")
}

func TestPromptWithoutNewDocument(t *testing.T) {
	existing := []store.Document{doc("alpha", "a.txt"), doc("beta", "b.txt")}

	prompt := buildSystemPrompt(existing, nil)

	assert.Contains(t, prompt, "You have 2 sources available.")
	assert.Contains(t, prompt, "[Source 2]\nbeta")
	assert.NotContains(t, prompt, "[Source 3]")
	assert.Contains(t, prompt, "New document:\n\"\"\"\nNone\n\"\"\"")
}

func TestNewDocumentsReachThePrompt(t *testing.T) {
	index := &fakeIndex{docs: []store.Document{doc("existing text", "a.txt")}}
	model := &fakeLLM{content: `{"answer":"ok","citations":[]}`}
	uploaded := []store.Document{{Content: "uploaded text", Origin: store.OriginNew}}

	a := New(index, &fakeValidator{}, model, &fakeTracker{}, nil)

	_, err := a.Answer(context.Background(), "question", uploaded, "user-1")
	require.NoError(t, err)

	assert.Contains(t, model.lastReq.System, "[Source 2]\nuploaded text")
	assert.Equal(t, "question", model.lastReq.User)
	assert.Equal(t, "quoted_answer", model.lastReq.SchemaName)
}

func TestQuotedAnswerString(t *testing.T) {
	a := QuotedAnswer{
		Answer: "Paris is the capital.",
		Citations: []Citation{
			{Quote: "Paris is the capital of France"},
			{Quote: "France's capital city, Paris"},
		},
	}

	expected := "Paris is the capital.\n\n" +
		"\"Paris is the capital of France\"\n\n" +
		"\"France's capital city, Paris\""
	assert.Equal(t, expected, a.String())
}

func TestAnswerSchemaShape(t *testing.T) {
	schema := AnswerSchema()

	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "answer")
	assert.Contains(t, props, "citations")
	assert.ElementsMatch(t, []string{"answer", "citations"}, schema["required"])
}
