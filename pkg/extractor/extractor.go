package extractor

import (
	"context"
	"encoding/json"
	"time"
)

// FileMetadata describes an uploaded file: filesystem facts plus content
// metadata pulled out of the document text.
type FileMetadata struct {
	// File facts
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	FileExtension string    `json:"file_extension"`
	CreatedTime   time.Time `json:"created_time"`
	ModifiedTime  time.Time `json:"modified_time"`
	UploadTime    time.Time `json:"upload_time"`

	// Content metadata
	Title           string   `json:"title,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
	Editor          string   `json:"editor,omitempty"`
	Publisher       string   `json:"publisher,omitempty"`
	Category        string   `json:"category,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	Language        string   `json:"language,omitempty"`
	DocumentType    string   `json:"document_type,omitempty"`
	SubjectArea     string   `json:"subject_area,omitempty"`
}

// ToMap flattens the metadata for storage alongside a chunk. Zero-valued
// optional fields drop out via the omitempty tags.
func (m *FileMetadata) ToMap() map[string]interface{} {
	raw, err := json.Marshal(m)
	if err != nil {
		return map[string]interface{}{"file_name": m.FileName}
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{"file_name": m.FileName}
	}
	return out
}

// FileMetadataExtractor produces metadata for an uploaded file. Only the
// upload path consults it; answering never does.
type FileMetadataExtractor interface {
	ExtractMetadata(ctx context.Context, filePath string) (*FileMetadata, error)
}
