package uploader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"document-bot-be/pkg/embedding"
	"document-bot-be/pkg/extractor"
	"document-bot-be/pkg/store"
	"document-bot-be/pkg/utils"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is one embedded slice of an uploaded document, ready for indexing.
type Chunk struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]interface{}
	Index     int
	Total     int
	FileName  string
}

// Indexer persists embedded chunks so later questions can retrieve them.
type Indexer interface {
	IndexChunks(ctx context.Context, chunks []Chunk) error
}

// Uploader saves an uploaded file to local storage, extracts its metadata,
// splits it into overlapping chunks, embeds each one and hands them to the
// index. The returned documents feed the current question's prompt directly,
// so the answer can cite the upload in the same request that carried it.
type Uploader struct {
	storageDir   string
	extractor    extractor.FileMetadataExtractor
	embedder     embedding.EmbeddingProvider
	indexer      Indexer
	chunkSize    int
	chunkOverlap int
}

func NewUploader(storageDir string, ext extractor.FileMetadataExtractor, embedder embedding.EmbeddingProvider, indexer Indexer) *Uploader {
	return &Uploader{
		storageDir:   storageDir,
		extractor:    ext,
		embedder:     embedder,
		indexer:      indexer,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
}

func (u *Uploader) Upload(ctx context.Context, fileName string, content []byte) ([]store.Document, error) {
	path, err := u.save(fileName, content)
	if err != nil {
		return nil, err
	}

	meta, err := u.extractor.ExtractMetadata(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}
	meta.FileName = fileName

	pieces := utils.SplitText(string(content), u.chunkSize, u.chunkOverlap)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("uploaded file %q contains no text", fileName)
	}

	chunks := make([]Chunk, 0, len(pieces))
	docs := make([]store.Document, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := u.embedder.Embed(ctx, piece)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %q: %w", i, fileName, err)
		}

		chunkMeta := meta.ToMap()
		chunkMeta["chunk_index"] = i
		chunkMeta["total_chunks"] = len(pieces)
		chunkMeta["source"] = fileName

		id := uuid.NewString()
		chunks = append(chunks, Chunk{
			ID:        id,
			Content:   piece,
			Embedding: vector,
			Metadata:  chunkMeta,
			Index:     i,
			Total:     len(pieces),
			FileName:  fileName,
		})
		docs = append(docs, store.Document{
			ID:       id,
			Content:  piece,
			Origin:   store.OriginNew,
			Metadata: chunkMeta,
		})
	}

	if err := u.indexer.IndexChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index uploaded chunks: %w", err)
	}
	return docs, nil
}

// save writes the file under a unique name so repeat uploads never clobber
// each other.
func (u *Uploader) save(fileName string, content []byte) (string, error) {
	if err := os.MkdirAll(u.storageDir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	base := filepath.Base(fileName)
	base = strings.ReplaceAll(base, string(os.PathSeparator), "_")
	path := filepath.Join(u.storageDir, uuid.NewString()[:8]+"_"+base)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("save uploaded file: %w", err)
	}
	return path, nil
}
