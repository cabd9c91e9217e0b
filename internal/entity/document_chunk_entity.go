package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentChunk is one embedded slice of an indexed document. Pre-indexed
// corpus chunks and freshly uploaded ones live in the same table.
type DocumentChunk struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Content     string          `gorm:"type:text"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	Metadata    datatypes.JSON  `gorm:"type:jsonb"`
	FileName    string          `gorm:"index"`
	ChunkIndex  int             `gorm:"default:0"`
	TotalChunks int             `gorm:"default:0"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
