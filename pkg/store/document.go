package store

// Origin values for a source document.
const (
	OriginExisting = "existing"
	OriginNew      = "new"
)

// Document is a retrieved or uploaded text passage plus its metadata.
// Existing (pre-indexed) and newly uploaded documents share one struct;
// Origin tells them apart while the prompt numbers them continuously.
type Document struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Origin   string                 `json:"origin"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Source returns the human-readable source tag of the document, used by
// retrieval telemetry. Falls back to "unknown" when the metadata has none.
func (d Document) Source() string {
	if d.Metadata != nil {
		if s, ok := d.Metadata["source"].(string); ok && s != "" {
			return s
		}
		if s, ok := d.Metadata["file_name"].(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}
