package assistant

import (
	"context"

	"document-bot-be/pkg/store"
)

// pipelineState threads the retrieve-then-generate workflow. It is owned by
// exactly one Answer invocation and never shared across goroutines.
type pipelineState struct {
	question          string
	existingDocuments []store.Document
	newDocument       []store.Document
	answer            QuotedAnswer
}

// DocumentIndex is the persistent-index capability the retrieval stage
// searches against.
type DocumentIndex interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]store.Document, error)
}

// QuestionValidator is the validation pass that gates the pipeline.
// Typically a validation.Chain.
type QuestionValidator interface {
	Validate(ctx context.Context, question, userKey string) error
}

// FlaggedTracker tracks per-user moderation-flag state so a later
// successful validation can be detected as a recovery.
type FlaggedTracker interface {
	RecordFlagged(ctx context.Context, userKey string)
	CheckRecovery(ctx context.Context, userKey string) bool
	RecordSuccess(ctx context.Context, userKey string) bool
}
