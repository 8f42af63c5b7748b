package importers

import (
	"errors"
	"io"
	"log"
	"slices"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/kindle"
)

// RecordSource yields decoded clippings until io.EOF. *kindle.Parser
// implements it.
type RecordSource interface {
	Next() (entities.Clipping, error)
}

var _ RecordSource = (*kindle.Parser)(nil)

// ImportResult counts what a collection pass saw.
type ImportResult struct {
	RecordsParsed int
	Duplicates    int
	Skipped       int // parsed but not for a requested document
	ParseErrors   int
}

// ClippingSet is an insertion-ordered set of clippings keyed by identity.
// Adding a clipping whose Key is already present keeps the first copy.
type ClippingSet struct {
	index     map[entities.Key]int
	clippings []entities.Clipping
}

func NewClippingSet() *ClippingSet {
	return &ClippingSet{index: make(map[entities.Key]int)}
}

// Add inserts c and reports whether it was new.
func (s *ClippingSet) Add(c entities.Clipping) bool {
	key := c.Key()
	if _, exists := s.index[key]; exists {
		return false
	}
	s.index[key] = len(s.clippings)
	s.clippings = append(s.clippings, c)
	return true
}

func (s *ClippingSet) Len() int {
	return len(s.clippings)
}

// Clippings returns the retained clippings in first-seen order.
func (s *ClippingSet) Clippings() []entities.Clipping {
	return slices.Clone(s.clippings)
}

// Outcome is what the collector did with a parsed clipping.
type Outcome int

const (
	Retained Outcome = iota
	Duplicate
	Skipped
)

// Collector drives a RecordSource to exhaustion. Record-level parse errors
// are reported to the error logger and the pass carries on with the next
// record; reader failures stop it.
type Collector struct {
	errLog *log.Logger
	// OnClipping, if set, observes every successfully parsed clipping
	OnClipping func(c entities.Clipping, outcome Outcome)
}

// NewCollector reports parse errors to errLog. A nil logger discards them.
func NewCollector(errLog *log.Logger) *Collector {
	if errLog == nil {
		errLog = log.New(io.Discard, "", 0)
	}
	return &Collector{errLog: errLog}
}

// CollectTitles returns the sorted distinct document titles in the source.
func (c *Collector) CollectTitles(src RecordSource) ([]string, ImportResult, error) {
	seen := make(map[string]struct{})
	result, err := c.run(src, func(clipping entities.Clipping) Outcome {
		seen[clipping.DocumentTitle] = struct{}{}
		return Retained
	})
	if err != nil {
		return nil, result, err
	}

	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	slices.Sort(titles)
	return titles, result, nil
}

// CollectClippings returns the deduplicated clippings of the requested
// documents. Clippings of other documents are parsed and dropped.
func (c *Collector) CollectClippings(src RecordSource, documentTitles []string) (*ClippingSet, ImportResult, error) {
	wanted := make(map[string]struct{}, len(documentTitles))
	for _, title := range documentTitles {
		wanted[title] = struct{}{}
	}

	set := NewClippingSet()
	result, err := c.run(src, func(clipping entities.Clipping) Outcome {
		if _, ok := wanted[clipping.DocumentTitle]; !ok {
			return Skipped
		}
		if !set.Add(clipping) {
			return Duplicate
		}
		return Retained
	})
	if err != nil {
		return nil, result, err
	}
	return set, result, nil
}

func (c *Collector) run(src RecordSource, keep func(entities.Clipping) Outcome) (ImportResult, error) {
	var result ImportResult
	for {
		clipping, err := src.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		}

		var parseErr *kindle.ParseError
		if errors.As(err, &parseErr) {
			result.ParseErrors++
			c.errLog.Printf("Error parsing clippings entry at line %d: %v. Skipping.", parseErr.Line, parseErr.Err)
			continue
		}
		if err != nil {
			return result, err
		}

		result.RecordsParsed++
		outcome := keep(clipping)
		switch outcome {
		case Duplicate:
			result.Duplicates++
		case Skipped:
			result.Skipped++
		}
		if c.OnClipping != nil {
			c.OnClipping(clipping, outcome)
		}
	}
}
