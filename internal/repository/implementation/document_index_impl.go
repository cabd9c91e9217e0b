package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"document-bot-be/internal/entity"
	"document-bot-be/internal/repository/contract"
	"document-bot-be/pkg/embedding"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/uploader"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentIndexImpl struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
}

func NewDocumentIndex(db *gorm.DB, embedder embedding.EmbeddingProvider) contract.DocumentIndex {
	return &DocumentIndexImpl{db: db, embedder: embedder}
}

func (r *DocumentIndexImpl) SimilaritySearch(ctx context.Context, query string, k int) ([]store.Document, error) {
	if k <= 0 {
		k = 4
	}

	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var chunks []*entity.DocumentChunk
	// pgvector cosine distance: embedding <=> vector
	err = r.db.WithContext(ctx).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(queryVector))).
		Limit(k).
		Find(&chunks).Error
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = store.Document{
			ID:       c.Id.String(),
			Content:  c.Content,
			Origin:   store.OriginExisting,
			Metadata: decodeMetadata(c),
		}
	}
	return docs, nil
}

func (r *DocumentIndexImpl) IndexChunks(ctx context.Context, chunks []uploader.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			id = uuid.New()
		}
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}
		rows[i] = &entity.DocumentChunk{
			Id:          id,
			Content:     c.Content,
			Embedding:   pgvector.NewVector(c.Embedding),
			Metadata:    datatypes.JSON(meta),
			FileName:    c.FileName,
			ChunkIndex:  c.Index,
			TotalChunks: c.Total,
		}
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func decodeMetadata(c *entity.DocumentChunk) map[string]interface{} {
	meta := map[string]interface{}{}
	if len(c.Metadata) > 0 {
		if err := json.Unmarshal(c.Metadata, &meta); err != nil {
			meta = map[string]interface{}{}
		}
	}
	if _, ok := meta["source"]; !ok && c.FileName != "" {
		meta["source"] = c.FileName
	}
	return meta
}
