package assistant

import (
	"strings"
)

// Citation is one verbatim quote drawn from a numbered source.
type Citation struct {
	Quote string `json:"quote"`
}

// QuotedAnswer is the structured output contract for the generation stage:
// a free-text answer plus the source quotes that justify it.
type QuotedAnswer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// String renders the final user-facing answer: the answer text, a blank
// line, then each citation quote wrapped in double quotes and joined by
// blank lines.
func (a QuotedAnswer) String() string {
	quoted := make([]string, len(a.Citations))
	for i, c := range a.Citations {
		quoted[i] = `"` + c.Quote + `"`
	}
	return a.Answer + "\n\n" + strings.Join(quoted, "\n\n")
}

// AnswerSchema is the JSON schema the model's structured output must
// conform to. Enforcement happens in the model integration; the stage only
// unmarshals the result.
func AnswerSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"answer": map[string]interface{}{
				"type":        "string",
				"description": "The answer to the user question, based only on the given sources.",
			},
			"citations": map[string]interface{}{
				"type":        "array",
				"description": "Citations from the given sources that justify the answer.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"quote": map[string]interface{}{
							"type":        "string",
							"description": "A verbatim quote from a numbered source.",
						},
					},
					"required":             []string{"quote"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"answer", "citations"},
		"additionalProperties": false,
	}
}
