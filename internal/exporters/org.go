package exporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/clippings/internal/entities"
)

// OrgExporter writes one "DOCUMENT: <title>" header per document followed by
// a quote block per clipping. Documents are separated by a blank line.
type OrgExporter struct{}

func NewOrgExporter() *OrgExporter {
	return &OrgExporter{}
}

func (e *OrgExporter) Export(w io.Writer, documents []Document) (ExportResult, error) {
	var result ExportResult
	sections := make([]string, 0, len(documents))
	for _, doc := range documents {
		sections = append(sections, GenerateOrg(doc))
		result.DocumentsProcessed++
		result.ClippingsProcessed += len(doc.Clippings)
	}

	if _, err := fmt.Fprintln(w, strings.Join(sections, "\n")); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write org output: %w", err)
	}
	return result, nil
}

// GenerateOrg renders a single document section, terminated by a newline.
func GenerateOrg(doc Document) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "DOCUMENT: %s\n", doc.Title)

	blocks := make([]string, 0, len(doc.Clippings))
	for _, c := range doc.Clippings {
		blocks = append(blocks, OrgQuote(c))
	}
	builder.WriteString(strings.Join(blocks, "\n"))
	builder.WriteString("\n")
	return builder.String()
}

// OrgQuote renders one clipping as an org quote block. Notes are the reader's
// own words and are wrapped in angle brackets without formatting.
func OrgQuote(c entities.Clipping) string {
	body := FormatContent(c.Content)
	if c.Kind == entities.KindNote {
		body = "<" + c.Content + ">"
	}
	return "#+begin_quote\n" + body + "\n#+end_quote"
}

var _ ClippingExporter = (*OrgExporter)(nil)
