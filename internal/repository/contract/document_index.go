package contract

import (
	"context"

	"document-bot-be/pkg/store"
	"document-bot-be/pkg/uploader"
)

// DocumentIndex is the retrieval store: nearest-neighbour search over the
// indexed chunks plus ingestion for freshly uploaded ones.
type DocumentIndex interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]store.Document, error)
	IndexChunks(ctx context.Context, chunks []uploader.Chunk) error
}
