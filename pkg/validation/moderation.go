package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"document-bot-be/pkg/analytics"
	"document-bot-be/pkg/llm"
)

// ModerationValidator rejects questions flagged by the external moderation
// capability. The failure reason enumerates every flagged category,
// comma-joined; categories and scores also go out as event metadata.
type ModerationValidator struct {
	moderator llm.Moderator
	emitter   analytics.Emitter
}

var _ QuestionValidator = &ModerationValidator{}

func NewModerationValidator(moderator llm.Moderator, emitter analytics.Emitter) *ModerationValidator {
	return &ModerationValidator{
		moderator: moderator,
		emitter:   emitter,
	}
}

func (v *ModerationValidator) Name() string {
	return "moderation"
}

func (v *ModerationValidator) Validate(ctx context.Context, question, userKey string) error {
	start := time.Now()
	result, err := v.moderator.Moderate(ctx, question)
	durationMS := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		// Moderation backend failure is a system error, not a rejection.
		return fmt.Errorf("moderation check failed: %w", err)
	}

	if v.emitter != nil {
		v.emitter.Emit("moderation_check", map[string]interface{}{
			"flagged":     result.Flagged,
			"categories":  result.Categories,
			"scores":      result.Scores,
			"duration_ms": durationMS,
			"user":        analytics.HashUserKey(userKey),
		})
	}

	if result.Flagged {
		return NewInvalidQuestionError(
			"Question contains inappropriate content: " + strings.Join(result.Categories, ", "),
		)
	}
	return nil
}
