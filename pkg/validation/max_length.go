package validation

import (
	"context"
	"fmt"
	"unicode/utf8"
)

const DefaultMaxQuestionLength = 1000

// MaxLengthValidator rejects questions longer than a configured character
// ceiling. The failure reason always states the exact configured limit.
type MaxLengthValidator struct {
	maxLength int
}

var _ QuestionValidator = &MaxLengthValidator{}

func NewMaxLengthValidator(maxLength int) *MaxLengthValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxQuestionLength
	}
	return &MaxLengthValidator{maxLength: maxLength}
}

func (v *MaxLengthValidator) Name() string {
	return "max_length"
}

func (v *MaxLengthValidator) Validate(ctx context.Context, question, userKey string) error {
	if utf8.RuneCountInString(question) > v.maxLength {
		return NewInvalidQuestionError(
			fmt.Sprintf("Question is too long. Maximum length is %d characters.", v.maxLength),
		)
	}
	return nil
}
