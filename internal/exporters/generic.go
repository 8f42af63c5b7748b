package exporters

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mrlokans/clippings/internal/entities"
)

// Document is one output group: the exported clippings of a single title in
// display order.
type Document struct {
	Title     string              `json:"documentTitle"`
	Clippings []entities.Clipping `json:"clippings"`
}

// ClippingExporter serializes grouped clippings to w.
type ClippingExporter interface {
	Export(w io.Writer, documents []Document) (ExportResult, error)
}

type ExportResult struct {
	DocumentsProcessed int `json:"documents_processed"`
	ClippingsProcessed int `json:"clippings_processed"`
}

// Format names an output shape.
type Format string

const (
	FormatJSON Format = "json"
	FormatOrg  Format = "org"
)

// ParseFormat maps a format selector to a Format. Anything other than "json"
// selects org.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatOrg
}

// NewExporter returns the exporter for format.
func NewExporter(format Format) ClippingExporter {
	switch format {
	case FormatJSON:
		return NewJSONExporter()
	case FormatOrg:
		return NewOrgExporter()
	default:
		panic(fmt.Sprintf("exporters: unknown format %q", format))
	}
}

// Group keeps highlights and notes, groups them by document title and orders
// each group by location. Clippings at equal locations stay in timestamp
// order, then in input order. Groups are ordered by title.
func Group(clippings []entities.Clipping) []Document {
	exported := make([]entities.Clipping, 0, len(clippings))
	for _, c := range clippings {
		if c.Exported() {
			exported = append(exported, c)
		}
	}

	slices.SortStableFunc(exported, func(a, b entities.Clipping) int {
		return a.AddedAt.Compare(b.AddedAt)
	})
	slices.SortStableFunc(exported, func(a, b entities.Clipping) int {
		return a.Location.Compare(b.Location)
	})

	byTitle := make(map[string]*Document)
	var titles []string
	for _, c := range exported {
		doc, exists := byTitle[c.DocumentTitle]
		if !exists {
			doc = &Document{Title: c.DocumentTitle}
			byTitle[c.DocumentTitle] = doc
			titles = append(titles, c.DocumentTitle)
		}
		doc.Clippings = append(doc.Clippings, c)
	}

	slices.Sort(titles)
	documents := make([]Document, 0, len(titles))
	for _, title := range titles {
		documents = append(documents, *byTitle[title])
	}
	return documents
}
