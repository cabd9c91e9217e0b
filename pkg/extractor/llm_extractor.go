package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"document-bot-be/pkg/llm"
)

// maxSampleChars caps how much document text is sent to the model.
const maxSampleChars = 8000

// LLMExtractor asks the language model for content metadata over the head
// of the document, merged onto stat-based file facts.
type LLMExtractor struct {
	base     *BaseExtractor
	provider llm.Provider
}

var _ FileMetadataExtractor = &LLMExtractor{}

func NewLLMExtractor(provider llm.Provider) *LLMExtractor {
	return &LLMExtractor{
		base:     NewBaseExtractor(),
		provider: provider,
	}
}

type contentMetadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	PublishedDate   string   `json:"published_date"`
	PublicationYear int      `json:"publication_year"`
	Editor          string   `json:"editor"`
	Publisher       string   `json:"publisher"`
	Category        string   `json:"category"`
	Keywords        []string `json:"keywords"`
	Abstract        string   `json:"abstract"`
	Language        string   `json:"language"`
	DocumentType    string   `json:"document_type"`
	SubjectArea     string   `json:"subject_area"`
}

func (e *LLMExtractor) ExtractMetadata(ctx context.Context, filePath string) (*FileMetadata, error) {
	meta, err := e.base.ExtractMetadata(ctx, filePath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	sample := []rune(string(raw))
	if len(sample) > maxSampleChars {
		sample = sample[:maxSampleChars]
	}

	resp, err := e.provider.GenerateStructured(ctx, llm.StructuredRequest{
		System:     "You are a metadata extraction assistant. Return only valid JSON.",
		User:       buildMetadataPrompt(string(sample)),
		SchemaName: "file_metadata",
		Schema:     metadataSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("metadata extraction call failed: %w", err)
	}

	var content contentMetadata
	if err := json.Unmarshal(resp.Content, &content); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}

	meta.Title = content.Title
	meta.Authors = content.Authors
	meta.PublishedDate = content.PublishedDate
	meta.PublicationYear = content.PublicationYear
	meta.Editor = content.Editor
	meta.Publisher = content.Publisher
	meta.Category = content.Category
	meta.Keywords = content.Keywords
	meta.Abstract = content.Abstract
	meta.Language = content.Language
	meta.DocumentType = content.DocumentType
	meta.SubjectArea = content.SubjectArea

	return meta, nil
}

func buildMetadataPrompt(sample string) string {
	return "Analyze the following document and extract its metadata. " +
		"Use empty strings, empty arrays, or 0 for fields you cannot determine.\n\n" +
		"- title: the document title\n" +
		"- authors: author names\n" +
		"- published_date: publication date in YYYY-MM-DD format\n" +
		"- publication_year: year of publication\n" +
		"- editor: editor name if mentioned\n" +
		"- publisher: publisher name if mentioned\n" +
		"- category: document category (e.g. \"research paper\", \"technical report\", \"article\", \"manual\")\n" +
		"- keywords: 3-10 key topics or themes\n" +
		"- abstract: brief summary if present, max 500 chars\n" +
		"- language: document language (e.g. \"English\")\n" +
		"- document_type: e.g. \"academic\", \"technical\", \"business\", \"legal\"\n" +
		"- subject_area: main subject area (e.g. \"Computer Science\", \"Medicine\")\n\n" +
		"Document text:\n" + sample
}

func metadataSchema() map[string]interface{} {
	stringField := func() map[string]interface{} {
		return map[string]interface{}{"type": "string"}
	}
	stringArray := func() map[string]interface{} {
		return map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		}
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title":            stringField(),
			"authors":          stringArray(),
			"published_date":   stringField(),
			"publication_year": map[string]interface{}{"type": "integer"},
			"editor":           stringField(),
			"publisher":        stringField(),
			"category":         stringField(),
			"keywords":         stringArray(),
			"abstract":         stringField(),
			"language":         stringField(),
			"document_type":    stringField(),
			"subject_area":     stringField(),
		},
		"required": []string{
			"title", "authors", "published_date", "publication_year",
			"editor", "publisher", "category", "keywords", "abstract",
			"language", "document_type", "subject_area",
		},
		"additionalProperties": false,
	}
}
