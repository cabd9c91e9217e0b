package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BaseExtractor fills in the filesystem facts only. It backs the LLM
// extractor and doubles as the fallback when no model is configured.
type BaseExtractor struct{}

var _ FileMetadataExtractor = &BaseExtractor{}

func NewBaseExtractor() *BaseExtractor {
	return &BaseExtractor{}
}

func (e *BaseExtractor) ExtractMetadata(ctx context.Context, filePath string) (*FileMetadata, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat uploaded file: %w", err)
	}

	now := time.Now()
	return &FileMetadata{
		FileName:      info.Name(),
		FilePath:      filePath,
		FileSize:      info.Size(),
		FileExtension: strings.ToLower(filepath.Ext(filePath)),
		// Creation time is not portably available; modification time is the
		// closest stand-in.
		CreatedTime:  info.ModTime(),
		ModifiedTime: info.ModTime(),
		UploadTime:   now,
	}, nil
}
