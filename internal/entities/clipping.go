package entities

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind is the annotation type named in a clipping header.
type Kind int

const (
	KindBookmark Kind = iota
	KindHighlight
	KindNote
)

// ParseKind maps the header word to a Kind. Matching is exact and
// case-sensitive, as the device writes it.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "Bookmark":
		return KindBookmark, true
	case "Highlight":
		return KindHighlight, true
	case "Note":
		return KindNote, true
	default:
		return 0, false
	}
}

func (k Kind) String() string {
	switch k {
	case KindBookmark:
		return "bookmark"
	case KindHighlight:
		return "highlight"
	case KindNote:
		return "note"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// LocationOrPage is either a single position or a start-end range.
// The zero value is Singular(0).
type LocationOrPage struct {
	start  int
	end    int
	ranged bool
}

// Singular returns a single-position location.
func Singular(n int) LocationOrPage {
	return LocationOrPage{start: n, end: n}
}

// Ranged returns a range location, collapsing to Singular when start == end.
func Ranged(start, end int) LocationOrPage {
	if start == end {
		return Singular(start)
	}
	return LocationOrPage{start: start, end: end, ranged: true}
}

func (l LocationOrPage) IsRanged() bool { return l.ranged }

func (l LocationOrPage) Start() int { return l.start }

// End equals Start for singular locations.
func (l LocationOrPage) End() int { return l.end }

func (l LocationOrPage) String() string {
	if l.ranged {
		return fmt.Sprintf("%d-%d", l.start, l.end)
	}
	return fmt.Sprintf("%d", l.start)
}

// MarshalJSON encodes a singular location as an integer and a range as a
// two element array.
func (l LocationOrPage) MarshalJSON() ([]byte, error) {
	if l.ranged {
		return json.Marshal([2]int{l.start, l.end})
	}
	return json.Marshal(l.start)
}

// Compare orders locations for display. A singular location sorts before a
// range only when it is at or before the range start; containment is not
// considered. Ranges compare by start, then by end.
func (l LocationOrPage) Compare(other LocationOrPage) int {
	switch {
	case !l.ranged && !other.ranged:
		return compareInts(l.start, other.start)
	case !l.ranged && other.ranged:
		if l.start <= other.start {
			return -1
		}
		return 1
	case l.ranged && !other.ranged:
		return -other.Compare(l)
	default:
		if c := compareInts(l.start, other.start); c != 0 {
			return c
		}
		return compareInts(l.end, other.end)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Clipping is one decoded record of a clippings export. It is built once by
// the parser and never modified.
type Clipping struct {
	DocumentTitle string         `json:"-"`
	Kind          Kind           `json:"kind"`
	Location      LocationOrPage `json:"locationOrPage"`
	AddedAt       time.Time      `json:"-"`
	Content       string         `json:"content"`
}

// Key is the identity of a clipping. Two clippings that differ only in
// AddedAt share a Key.
type Key struct {
	DocumentTitle string
	Kind          Kind
	Location      LocationOrPage
	Content       string
}

// Key extracts the identity used for deduplication.
func (c Clipping) Key() Key {
	return Key{
		DocumentTitle: c.DocumentTitle,
		Kind:          c.Kind,
		Location:      c.Location,
		Content:       c.Content,
	}
}

// Exported reports whether the clipping kind is rendered by exporters.
// Bookmarks carry no text and are dropped from output.
func (c Clipping) Exported() bool {
	return c.Kind == KindHighlight || c.Kind == KindNote
}

// Title with author: "Book Title (Author Name)"
var titleAuthorPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)

// SplitTitleAuthor separates a trailing "(Author)" from a document title.
// Titles without a parenthesised suffix are returned whole.
func SplitTitleAuthor(documentTitle string) (title, author string) {
	matches := titleAuthorPattern.FindStringSubmatch(documentTitle)
	if len(matches) == 3 {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}
	return strings.TrimSpace(documentTitle), ""
}
