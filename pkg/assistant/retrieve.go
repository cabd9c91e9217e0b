package assistant

import (
	"context"
	"fmt"
)

// DefaultTopK is the number of existing documents retrieved per question.
const DefaultTopK = 4

// retrieve runs the similarity search with the raw question text and merges
// the result into the pipeline state. New-document chunks pass through
// unchanged; overlap with the search results is not filtered out.
func (a *Assistant) retrieve(ctx context.Context, state pipelineState) (pipelineState, error) {
	docs, err := a.index.SimilaritySearch(ctx, state.question, DefaultTopK)
	if err != nil {
		return state, fmt.Errorf("similarity search failed: %w", err)
	}
	state.existingDocuments = docs
	return state, nil
}
