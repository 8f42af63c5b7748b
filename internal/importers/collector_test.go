package importers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/kindle"
)

// sliceSource replays a fixed sequence of results.
type sliceSource struct {
	results []sourceResult
}

type sourceResult struct {
	clipping entities.Clipping
	err      error
}

func (s *sliceSource) Next() (entities.Clipping, error) {
	if len(s.results) == 0 {
		return entities.Clipping{}, io.EOF
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.clipping, r.err
}

func highlight(title string, loc entities.LocationOrPage, content string, at time.Time) entities.Clipping {
	return entities.Clipping{
		DocumentTitle: title,
		Kind:          entities.KindHighlight,
		Location:      loc,
		AddedAt:       at,
		Content:       content,
	}
}

var (
	monday  = time.Date(2016, 3, 21, 9, 0, 0, 0, time.UTC)
	tuesday = time.Date(2016, 3, 22, 9, 0, 0, 0, time.UTC)
)

func TestClippingSet_AddKeepsFirstCopy(t *testing.T) {
	set := NewClippingSet()
	first := highlight("Book A", entities.Ranged(100, 105), "text", tuesday)
	second := highlight("Book A", entities.Ranged(100, 105), "text", monday)

	assert.True(t, set.Add(first))
	assert.False(t, set.Add(second))
	require.Equal(t, 1, set.Len())
	assert.Equal(t, tuesday, set.Clippings()[0].AddedAt)
}

func TestCollector_CollectClippings_Deduplicates(t *testing.T) {
	for _, order := range [][2]time.Time{{monday, tuesday}, {tuesday, monday}} {
		src := &sliceSource{results: []sourceResult{
			{clipping: highlight("Book A", entities.Ranged(100, 105), "same", order[0])},
			{clipping: highlight("Book A", entities.Ranged(100, 105), "same", order[1])},
		}}

		set, res, err := NewCollector(nil).CollectClippings(src, []string{"Book A"})
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
		assert.Equal(t, 2, res.RecordsParsed)
		assert.Equal(t, 1, res.Duplicates)
	}
}

func TestCollector_CollectClippings_FiltersByTitle(t *testing.T) {
	src := &sliceSource{results: []sourceResult{
		{clipping: highlight("Book A", entities.Singular(1), "a", monday)},
		{clipping: highlight("Book B", entities.Singular(2), "b", monday)},
		{clipping: highlight("Book C", entities.Singular(3), "c", monday)},
	}}

	set, res, err := NewCollector(nil).CollectClippings(src, []string{"Book A", "Book C"})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, "Book A", set.Clippings()[0].DocumentTitle)
	assert.Equal(t, "Book C", set.Clippings()[1].DocumentTitle)
	assert.Equal(t, 1, res.Skipped)
}

func TestCollector_ReportsParseErrorsAndContinues(t *testing.T) {
	src := &sliceSource{results: []sourceResult{
		{err: &kindle.ParseError{Line: 7, Err: &kindle.InfoLineError{DocumentTitle: "Broken"}}},
		{clipping: highlight("Book A", entities.Singular(1), "a", monday)},
		{err: &kindle.ParseError{Line: 12, Err: kindle.ErrDateCapture}},
	}}

	var buf bytes.Buffer
	titles, res, err := NewCollector(log.New(&buf, "", 0)).CollectTitles(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"Book A"}, titles)
	assert.Equal(t, 2, res.ParseErrors)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Error parsing clippings entry at line 7: matching info line (for document "Broken"). Skipping.`, lines[0])
	assert.Equal(t, "Error parsing clippings entry at line 12: capturing entry date. Skipping.", lines[1])
}

func TestCollector_StopsOnReaderFailure(t *testing.T) {
	errBoom := errors.New("disk on fire")
	src := &sliceSource{results: []sourceResult{
		{clipping: highlight("Book A", entities.Singular(1), "a", monday)},
		{err: errBoom},
		{clipping: highlight("Book B", entities.Singular(1), "b", monday)},
	}}

	_, res, err := NewCollector(nil).CollectTitles(src)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, res.RecordsParsed)
}

func TestCollector_CollectTitles_SortedDistinct(t *testing.T) {
	input := strings.Join([]string{
		"Zen Book\r\n- Your Highlight at location 1 | Added on Monday, 21 March 2016 09:00:00\r\n\r\nz\r\n==========\r\n",
		"Alpha Book\r\n- Your Note at location 2 | Added on Monday, 21 March 2016 09:00:00\r\n\r\na\r\n==========\r\n",
		"Zen Book\r\n- Your Bookmark at location 3 | Added on Tuesday, 22 March 2016 09:00:00\r\n\r\n\r\n==========\r\n",
	}, "")

	titles, res, err := NewCollector(nil).CollectTitles(kindle.NewParser(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha Book", "Zen Book"}, titles)
	assert.Equal(t, 3, res.RecordsParsed)
}

func TestCollector_OnClippingObservesOutcomes(t *testing.T) {
	src := &sliceSource{results: []sourceResult{
		{clipping: highlight("Book A", entities.Singular(1), "a", monday)},
		{clipping: highlight("Book A", entities.Singular(1), "a", tuesday)},
		{clipping: highlight("Book B", entities.Singular(1), "b", monday)},
	}}

	var outcomes []Outcome
	collector := NewCollector(nil)
	collector.OnClipping = func(_ entities.Clipping, outcome Outcome) {
		outcomes = append(outcomes, outcome)
	}

	_, _, err := collector.CollectClippings(src, []string{"Book A"})
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Retained, Duplicate, Skipped}, outcomes)
}
