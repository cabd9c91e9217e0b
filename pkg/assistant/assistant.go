package assistant

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"document-bot-be/pkg/analytics"
	"document-bot-be/pkg/llm"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Assistant ties validation, retrieval and generation into one pipeline.
// Every stage runs inside its own span; failures are either a typed
// rejection (InvalidQuestionError) or a system error, both surfaced to the
// caller unchanged. Nothing is retried here.
type Assistant struct {
	index     DocumentIndex
	validator QuestionValidator
	llm       llm.Provider
	tracker   FlaggedTracker
	emitter   analytics.Emitter
	tracer    trace.Tracer
}

func New(
	index DocumentIndex,
	validator QuestionValidator,
	provider llm.Provider,
	tracker FlaggedTracker,
	emitter analytics.Emitter,
) *Assistant {
	return &Assistant{
		index:     index,
		validator: validator,
		llm:       provider,
		tracker:   tracker,
		emitter:   emitter,
		tracer:    otel.Tracer("document-bot/assistant"),
	}
}

// Answer validates the question, retrieves sources, generates a cited
// answer and returns it formatted for display. newDocument holds chunks of
// a freshly uploaded file, already indexed by the upload path; it may be
// empty. userKey is the caller's session identifier and may be empty for
// anonymous callers, in which case flagged-state tracking is skipped.
func (a *Assistant) Answer(ctx context.Context, question string, newDocument []store.Document, userKey string) (string, error) {
	validationStatus := "safe"
	isRecovery := false

	if userKey != "" && a.tracker != nil {
		isRecovery = a.tracker.CheckRecovery(ctx, userKey)
	}

	ctx, span := a.tracer.Start(ctx, "question_answer", trace.WithAttributes(
		attribute.Int("question_length", utf8.RuneCountInString(question)),
		attribute.Bool("has_new_document", len(newDocument) > 0),
		attribute.String("user", analytics.HashUserKey(userKey)),
	))
	defer span.End()

	if err := a.runValidation(ctx, question, userKey); err != nil {
		if validation.IsInvalidQuestion(err) {
			if userKey != "" && a.tracker != nil {
				a.tracker.RecordFlagged(ctx, userKey)
			}
			analytics.RecordQuestionAttempt(a.emitter, userKey, true, false, err.Error())

			span.SetAttributes(
				attribute.StringSlice("tags", []string{"flagged", "blocked"}),
				attribute.String("validation_status", "flagged"),
				attribute.String("failed_validator", err.Error()),
			)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}

		// System failure inside a validator (e.g. moderation backend down).
		a.traceError(span, err, validationStatus)
		return "", err
	}

	if userKey != "" && a.tracker != nil {
		if a.tracker.RecordSuccess(ctx, userKey) {
			isRecovery = true
		}
	}
	analytics.RecordQuestionAttempt(a.emitter, userKey, false, isRecovery, "")

	state := pipelineState{question: question, newDocument: newDocument}

	state, err := a.runRetrieval(ctx, state)
	if err != nil {
		a.traceError(span, err, validationStatus)
		return "", err
	}

	state, err = a.runGeneration(ctx, state)
	if err != nil {
		a.traceError(span, err, validationStatus)
		return "", err
	}

	if a.emitter != nil {
		a.emitter.Debug("answer", map[string]interface{}{
			"question": state.question,
			"sources":  sourceNames(state.existingDocuments),
			"answer":   state.answer,
		})
	}

	tags := []string{"safe"}
	if isRecovery {
		tags = append(tags, "recovery")
	}
	span.SetAttributes(
		attribute.StringSlice("tags", tags),
		attribute.String("validation_status", validationStatus),
		attribute.Int("num_sources", len(state.existingDocuments)),
		attribute.Bool("is_recovery", isRecovery),
	)

	return state.answer.String(), nil
}

func (a *Assistant) runValidation(ctx context.Context, question, userKey string) error {
	ctx, span := a.tracer.Start(ctx, "validation")
	defer span.End()

	if err := a.validator.Validate(ctx, question, userKey); err != nil {
		span.SetAttributes(
			attribute.Bool("passed", false),
			attribute.String("reason", err.Error()),
		)
		return err
	}
	span.SetAttributes(attribute.Bool("passed", true))
	return nil
}

func (a *Assistant) runRetrieval(ctx context.Context, state pipelineState) (pipelineState, error) {
	ctx, span := a.tracer.Start(ctx, "retrieval")
	defer span.End()

	state, err := a.retrieve(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return state, err
	}
	span.SetAttributes(
		attribute.Int("num_documents", len(state.existingDocuments)),
		attribute.StringSlice("sources", sourceNames(state.existingDocuments)),
	)
	return state, nil
}

func (a *Assistant) runGeneration(ctx context.Context, state pipelineState) (pipelineState, error) {
	ctx, span := a.tracer.Start(ctx, "generation")
	defer span.End()

	state, err := a.generate(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return state, err
	}
	if out, jsonErr := json.Marshal(state.answer); jsonErr == nil {
		span.SetAttributes(attribute.String("output", string(out)))
	}
	return state, nil
}

func (a *Assistant) traceError(span trace.Span, err error, validationStatus string) {
	span.SetAttributes(
		attribute.StringSlice("tags", []string{"error"}),
		attribute.String("validation_status", validationStatus),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func sourceNames(docs []store.Document) []string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Source()
	}
	return names
}
