package exporters

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONExporter writes documents as a pretty-printed JSON array:
//
//	[{"documentTitle": "...", "clippings": [{"kind": "highlight", "locationOrPage": [100, 105], "content": "..."}]}]
type JSONExporter struct {
	Indent string
}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

func (e *JSONExporter) Export(w io.Writer, documents []Document) (ExportResult, error) {
	var result ExportResult
	if documents == nil {
		documents = []Document{}
	}
	for _, doc := range documents {
		result.DocumentsProcessed++
		result.ClippingsProcessed += len(doc.Clippings)
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", e.Indent)
	if err := encoder.Encode(documents); err != nil {
		return ExportResult{}, fmt.Errorf("failed to encode clippings: %w", err)
	}
	return result, nil
}

var _ ClippingExporter = (*JSONExporter)(nil)
