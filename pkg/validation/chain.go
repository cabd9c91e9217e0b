package validation

import (
	"context"

	"document-bot-be/pkg/analytics"
)

// Chain runs validators in a fixed order. The first failure stops the
// chain; later validators never run. The failing error is returned
// unchanged after the aggregate event is recorded.
type Chain struct {
	validators []QuestionValidator
	emitter    analytics.Emitter
}

func NewChain(emitter analytics.Emitter, validators ...QuestionValidator) *Chain {
	return &Chain{
		validators: validators,
		emitter:    emitter,
	}
}

func (c *Chain) Validate(ctx context.Context, question, userKey string) error {
	for _, v := range c.validators {
		if err := v.Validate(ctx, question, userKey); err != nil {
			if c.emitter != nil {
				c.emitter.Emit("validation_complete", map[string]interface{}{
					"status":    "failed",
					"validator": v.Name(),
					"reason":    err.Error(),
					"user":      analytics.HashUserKey(userKey),
				})
			}
			return err
		}
	}

	if c.emitter != nil {
		c.emitter.Emit("validation_complete", map[string]interface{}{
			"status": "passed",
			"user":   analytics.HashUserKey(userKey),
		})
	}
	return nil
}
