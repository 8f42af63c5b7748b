package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/importers"
)

type documentCounts struct {
	highlights int
	notes      int
	bookmarks  int
	duplicates int
}

// Summary tallies retained and duplicate clippings per document while the
// collector runs. A nil *Summary ignores all calls.
type Summary struct {
	documents map[string]*documentCounts
}

func NewSummary() *Summary {
	return &Summary{documents: make(map[string]*documentCounts)}
}

// Observe matches importers.Collector.OnClipping.
func (s *Summary) Observe(c entities.Clipping, outcome importers.Outcome) {
	if s == nil || outcome == importers.Skipped {
		return
	}
	counts, ok := s.documents[c.DocumentTitle]
	if !ok {
		counts = &documentCounts{}
		s.documents[c.DocumentTitle] = counts
	}

	if outcome == importers.Duplicate {
		counts.duplicates++
		return
	}
	switch c.Kind {
	case entities.KindHighlight:
		counts.highlights++
	case entities.KindNote:
		counts.notes++
	case entities.KindBookmark:
		counts.bookmarks++
	}
}

// Render returns the summary table followed by the parse error count.
func (s *Summary) Render(result importers.ImportResult) string {
	if s == nil {
		return ""
	}

	titles := make([]string, 0, len(s.documents))
	for title := range s.documents {
		titles = append(titles, title)
	}
	slices.Sort(titles)

	var total documentCounts
	rows := make([][]string, 0, len(titles))
	for _, title := range titles {
		c := s.documents[title]
		rows = append(rows, []string{
			title,
			strconv.Itoa(c.highlights),
			strconv.Itoa(c.notes),
			strconv.Itoa(c.bookmarks),
			strconv.Itoa(c.duplicates),
		})
		total.highlights += c.highlights
		total.notes += c.notes
		total.bookmarks += c.bookmarks
		total.duplicates += c.duplicates
	}

	footer := []string{
		"Total",
		strconv.Itoa(total.highlights),
		strconv.Itoa(total.notes),
		strconv.Itoa(total.bookmarks),
		strconv.Itoa(total.duplicates),
	}

	out := renderTable(
		[]string{"Document", "Highlights", "Notes", "Bookmarks", "Duplicates"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
	return out + fmt.Sprintf("\nParse errors: %d\n", result.ParseErrors)
}

func (s *Summary) Print(w io.Writer, result importers.ImportResult) {
	if s == nil {
		return
	}
	fmt.Fprint(w, s.Render(result))
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, footer []string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if footer != nil {
		tw.AppendFooter(toRow(footer, columns))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignFooter: align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(values) {
			r[i] = values[i]
		} else {
			r[i] = ""
		}
	}
	return r
}
