package exporters

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/entities"
)

var (
	monday  = time.Date(2016, 3, 21, 9, 0, 0, 0, time.UTC)
	tuesday = time.Date(2016, 3, 22, 9, 0, 0, 0, time.UTC)
)

func clipping(title string, kind entities.Kind, loc entities.LocationOrPage, content string, at time.Time) entities.Clipping {
	return entities.Clipping{
		DocumentTitle: title,
		Kind:          kind,
		Location:      loc,
		AddedAt:       at,
		Content:       content,
	}
}

// --- Group Tests ---

func TestGroup(t *testing.T) {
	t.Run("drops bookmarks", func(t *testing.T) {
		docs := Group([]entities.Clipping{
			clipping("Book A", entities.KindBookmark, entities.Singular(1), "", monday),
			clipping("Book A", entities.KindHighlight, entities.Singular(2), "kept", monday),
			clipping("Book B", entities.KindBookmark, entities.Singular(3), "", monday),
		})

		require.Len(t, docs, 1)
		assert.Equal(t, "Book A", docs[0].Title)
		require.Len(t, docs[0].Clippings, 1)
		assert.Equal(t, "kept", docs[0].Clippings[0].Content)
	})

	t.Run("orders clippings by location", func(t *testing.T) {
		docs := Group([]entities.Clipping{
			clipping("Book A", entities.KindHighlight, entities.Singular(5), "five", monday),
			clipping("Book A", entities.KindHighlight, entities.Ranged(3, 10), "three to ten", monday),
			clipping("Book A", entities.KindNote, entities.Singular(2), "two", monday),
		})

		require.Len(t, docs, 1)
		var got []string
		for _, c := range docs[0].Clippings {
			got = append(got, c.Content)
		}
		assert.Equal(t, []string{"two", "three to ten", "five"}, got)
	})

	t.Run("equal locations keep timestamp order", func(t *testing.T) {
		docs := Group([]entities.Clipping{
			clipping("Book A", entities.KindNote, entities.Singular(7), "later", tuesday),
			clipping("Book A", entities.KindHighlight, entities.Singular(7), "earlier", monday),
			clipping("Book A", entities.KindHighlight, entities.Singular(7), "same time", monday),
		})

		require.Len(t, docs, 1)
		var got []string
		for _, c := range docs[0].Clippings {
			got = append(got, c.Content)
		}
		assert.Equal(t, []string{"earlier", "same time", "later"}, got)
	})

	t.Run("orders documents by title", func(t *testing.T) {
		docs := Group([]entities.Clipping{
			clipping("Zen", entities.KindHighlight, entities.Singular(1), "z", monday),
			clipping("Alpha", entities.KindHighlight, entities.Singular(1), "a", monday),
			clipping("Zen", entities.KindHighlight, entities.Singular(2), "z2", monday),
		})

		require.Len(t, docs, 2)
		assert.Equal(t, "Alpha", docs[0].Title)
		assert.Equal(t, "Zen", docs[1].Title)
		assert.Len(t, docs[1].Clippings, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Group(nil))
	})
}

// --- Format Tests ---

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatOrg, ParseFormat("org"))
	assert.Equal(t, FormatOrg, ParseFormat("markdown"))
	assert.Equal(t, FormatOrg, ParseFormat(""))
}

func TestNewExporter(t *testing.T) {
	assert.IsType(t, &JSONExporter{}, NewExporter(FormatJSON))
	assert.IsType(t, &OrgExporter{}, NewExporter(FormatOrg))
	assert.Panics(t, func() { NewExporter(Format("xml")) })
}

// --- JSONExporter Tests ---

func TestJSONExporter_Export(t *testing.T) {
	t.Run("encodes documents with location shapes", func(t *testing.T) {
		docs := []Document{
			{
				Title: "Book A",
				Clippings: []entities.Clipping{
					clipping("Book A", entities.KindHighlight, entities.Ranged(100, 105), "text", monday),
					clipping("Book A", entities.KindNote, entities.Singular(106), "idea", monday),
				},
			},
		}

		var buf bytes.Buffer
		result, err := NewJSONExporter().Export(&buf, docs)
		require.NoError(t, err)

		assert.Equal(t, 1, result.DocumentsProcessed)
		assert.Equal(t, 2, result.ClippingsProcessed)
		assert.JSONEq(t, `[{"documentTitle":"Book A","clippings":[
			{"kind":"highlight","locationOrPage":[100,105],"content":"text"},
			{"kind":"note","locationOrPage":106,"content":"idea"}
		]}]`, buf.String())
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		docs := []Document{{
			Title:     "Q&A <Notes>",
			Clippings: []entities.Clipping{clipping("Q&A <Notes>", entities.KindHighlight, entities.Singular(1), "a < b & c", monday)},
		}}

		var buf bytes.Buffer
		_, err := NewJSONExporter().Export(&buf, docs)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), `"documentTitle": "Q&A <Notes>"`)
		assert.Contains(t, buf.String(), `"content": "a < b & c"`)
	})

	t.Run("indents with two spaces", func(t *testing.T) {
		docs := []Document{{
			Title:     "Book A",
			Clippings: []entities.Clipping{clipping("Book A", entities.KindHighlight, entities.Singular(1), "x", monday)},
		}}

		var buf bytes.Buffer
		_, err := NewJSONExporter().Export(&buf, docs)
		require.NoError(t, err)

		want := "[\n" +
			"  {\n" +
			"    \"documentTitle\": \"Book A\",\n" +
			"    \"clippings\": [\n" +
			"      {\n" +
			"        \"kind\": \"highlight\",\n" +
			"        \"locationOrPage\": 1,\n" +
			"        \"content\": \"x\"\n" +
			"      }\n" +
			"    ]\n" +
			"  }\n" +
			"]\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("writes an empty array for no documents", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := NewJSONExporter().Export(&buf, nil)
		require.NoError(t, err)

		assert.Equal(t, "[]\n", buf.String())
		assert.Zero(t, result.DocumentsProcessed)
	})
}

// --- OrgExporter Tests ---

func TestOrgQuote(t *testing.T) {
	t.Run("formats highlight content", func(t *testing.T) {
		c := clipping("Book A", entities.KindHighlight, entities.Singular(1), "the sky is blue.", monday)
		assert.Equal(t, "#+begin_quote\nThe sky is blue.\n#+end_quote", OrgQuote(c))
	})

	t.Run("wraps notes without formatting", func(t *testing.T) {
		c := clipping("Book A", entities.KindNote, entities.Singular(1), "idea", monday)
		assert.Equal(t, "#+begin_quote\n<idea>\n#+end_quote", OrgQuote(c))
	})
}

func TestOrgExporter_Export(t *testing.T) {
	t.Run("separates documents with a blank line", func(t *testing.T) {
		docs := []Document{
			{
				Title: "Book A",
				Clippings: []entities.Clipping{
					clipping("Book A", entities.KindHighlight, entities.Singular(1), "the sky is blue.", monday),
					clipping("Book A", entities.KindNote, entities.Singular(2), "idea", monday),
				},
			},
			{
				Title: "Book B",
				Clippings: []entities.Clipping{
					clipping("Book B", entities.KindHighlight, entities.Singular(3), "Foo", monday),
				},
			},
		}

		var buf bytes.Buffer
		result, err := NewOrgExporter().Export(&buf, docs)
		require.NoError(t, err)

		want := "DOCUMENT: Book A\n" +
			"#+begin_quote\nThe sky is blue.\n#+end_quote\n" +
			"#+begin_quote\n<idea>\n#+end_quote\n" +
			"\n" +
			"DOCUMENT: Book B\n" +
			"#+begin_quote\nFoo […].\n#+end_quote\n" +
			"\n"
		assert.Equal(t, want, buf.String())
		assert.Equal(t, 2, result.DocumentsProcessed)
		assert.Equal(t, 3, result.ClippingsProcessed)
	})

	t.Run("writes a single newline for no documents", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := NewOrgExporter().Export(&buf, nil)
		require.NoError(t, err)
		assert.Equal(t, "\n", buf.String())
	})
}
