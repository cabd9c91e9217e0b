package validation

import (
	"context"
	"errors"
)

// InvalidQuestionError is the typed rejection raised when a question fails
// validation. It carries a human-readable reason and is propagated to the
// caller unchanged, never wrapped.
type InvalidQuestionError struct {
	Reason string
}

func (e *InvalidQuestionError) Error() string {
	return e.Reason
}

func NewInvalidQuestionError(reason string) *InvalidQuestionError {
	if reason == "" {
		reason = "Invalid question"
	}
	return &InvalidQuestionError{Reason: reason}
}

// IsInvalidQuestion reports whether err is (or wraps) a validation
// rejection, as opposed to a system failure.
func IsInvalidQuestion(err error) bool {
	var iq *InvalidQuestionError
	return errors.As(err, &iq)
}

// QuestionValidator is one independent validation rule. Validate returns
// *InvalidQuestionError on rejection, any other error on a system failure,
// nil on pass. Implementations may emit their own telemetry before
// returning.
type QuestionValidator interface {
	Name() string
	Validate(ctx context.Context, question, userKey string) error
}
