package llm

import (
	"context"
)

// Usage carries token counts reported by the backend, when available.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// StructuredRequest asks the model for a single JSON object conforming to
// Schema. SchemaName labels the contract for backends that require it.
type StructuredRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]interface{}
}

// StructuredResponse is the raw schema-conforming JSON plus optional usage.
type StructuredResponse struct {
	Content []byte
	Usage   *Usage
}

// Provider defines the contract for any LLM backend capable of
// schema-constrained output. Schema enforcement is the backend's job; the
// caller unmarshals Content and treats malformed output as a call failure.
type Provider interface {
	// Model returns the backend model identifier, used for telemetry.
	Model() string

	// GenerateStructured sends a prompt and returns the structured reply.
	GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error)
}

// ModerationResult reports content moderation over a piece of text.
type ModerationResult struct {
	Flagged    bool
	Categories []string
	Scores     map[string]float64
}

// Moderator defines the external content-moderation capability.
type Moderator interface {
	Moderate(ctx context.Context, text string) (*ModerationResult, error)
}
