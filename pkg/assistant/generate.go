package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"document-bot-be/pkg/analytics"
	"document-bot-be/pkg/llm"
	"document-bot-be/pkg/store"
)

// generate builds the grounded prompt, invokes the model with the
// structured output contract and records call telemetry on success and
// failure alike. Model errors re-raise after being recorded.
func (a *Assistant) generate(ctx context.Context, state pipelineState) (pipelineState, error) {
	systemPrompt := buildSystemPrompt(state.existingDocuments, state.newDocument)

	start := time.Now()
	resp, err := a.llm.GenerateStructured(ctx, llm.StructuredRequest{
		System:     systemPrompt,
		User:       state.question,
		SchemaName: "quoted_answer",
		Schema:     AnswerSchema(),
	})
	durationMS := float64(time.Since(start)) / float64(time.Millisecond)

	if err != nil {
		analytics.RecordLLMCall(a.emitter, a.llm.Model(), false, durationMS, nil)
		return state, err
	}

	var tokens *analytics.TokenUsage
	if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
		tokens = &analytics.TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		}
	}

	var answer QuotedAnswer
	if err := json.Unmarshal(resp.Content, &answer); err != nil {
		analytics.RecordLLMCall(a.emitter, a.llm.Model(), false, durationMS, tokens)
		return state, fmt.Errorf("decode structured answer: %w", err)
	}

	analytics.RecordLLMCall(a.emitter, a.llm.Model(), true, durationMS, tokens)
	state.answer = answer
	return state, nil
}

// buildSystemPrompt lists existing documents under a continuous numbering
// starting at 1; a non-empty new-document list continues the same sequence.
// An empty new-document list never advances the numbering.
func buildSystemPrompt(existing, newDocument []store.Document) string {
	var b strings.Builder

	total := len(existing)
	if len(newDocument) > 0 {
		total += len(newDocument)
	}

	fmt.Fprintf(&b, "You're a helpful AI assistant. Given documents and a user's question, "+
		"answer the user's question based only on the provided sources. "+
		"You have %d sources available.", total)

	b.WriteString("\n\nExisting documents:\n\"\"\"\n")
	writeSourceBlocks(&b, existing, 1)
	b.WriteString("\n\"\"\"")

	b.WriteString("\n\nNew document:\n\"\"\"\n")
	if len(newDocument) > 0 {
		writeSourceBlocks(&b, newDocument, len(existing)+1)
	} else {
		b.WriteString("None")
	}
	b.WriteString("\n\"\"\"")

	return b.String()
}

func writeSourceBlocks(b *strings.Builder, docs []store.Document, startAt int) {
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(b, "[Source %d]\n%s", startAt+i, doc.Content)
	}
}
