package kindle

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/clippings/internal/entities"
)

const (
	entrySeparator = "=========="
	byteOrderMark  = "\uFEFF"
)

// DateLayout is the timestamp layout written by the device, e.g.
// "Saturday, 26 March 2016 18:37:26".
const DateLayout = "Monday, 2 January 2006 15:04:05"

// Matches: "- Your Highlight at location 784-785 | Added on Saturday, 26 March 2016 18:37:26"
// or: "- Your Bookmark on page 12 | Added on Saturday, 26 March 2016 15:46:21"
var infoLinePattern = regexp.MustCompile(
	`- Your (?P<kind>\w+).+?(?:location|page) (?P<start>\w+)(?:-(?P<end>\w+))? \| Added on (?P<date>.*)`)

var (
	kindGroup  = infoLinePattern.SubexpIndex("kind")
	startGroup = infoLinePattern.SubexpIndex("start")
	endGroup   = infoLinePattern.SubexpIndex("end")
	dateGroup  = infoLinePattern.SubexpIndex("date")
)

// Parser decodes clipping records from a "My Clippings.txt" stream, one
// record per call to Next.
type Parser struct {
	lines       *LineReader
	dateLayouts []string
	content     strings.Builder
}

func NewParser(r io.Reader) *Parser {
	return NewParserWithDateLayouts(r, nil)
}

// NewParserWithDateLayouts creates a parser that falls back to the given
// time layouts when a timestamp does not match DateLayout.
func NewParserWithDateLayouts(r io.Reader, layouts []string) *Parser {
	return &Parser{
		lines:       NewLineReader(r),
		dateLayouts: append([]string{DateLayout}, layouts...),
	}
}

// Line is the number of input lines consumed so far.
func (p *Parser) Line() int {
	return p.lines.Line()
}

// Next decodes the next record.
//
// It returns io.EOF when the stream is exhausted at a record boundary. A
// malformed record yields a *ParseError and the parser skips past the next
// separator, so the following call starts on a fresh record. Any other error
// comes from the underlying reader and is not recoverable.
func (p *Parser) Next() (entities.Clipping, error) {
	docTitle, err := p.readField()
	if err != nil {
		return entities.Clipping{}, err
	}

	infoLine, err := p.readField()
	if errors.Is(err, io.EOF) {
		// Multi-line titles end up here as well
		return entities.Clipping{}, p.fail(ErrOther)
	}
	if err != nil {
		return entities.Clipping{}, err
	}

	captures := infoLinePattern.FindStringSubmatch(infoLine)
	if captures == nil {
		return entities.Clipping{}, p.fail(&InfoLineError{DocumentTitle: docTitle})
	}

	kind, ok := entities.ParseKind(captures[kindGroup])
	if !ok {
		return entities.Clipping{}, p.fail(ErrKindCapture)
	}

	location, err := parseLocationOrPage(captures[startGroup], captures[endGroup])
	if err != nil {
		return entities.Clipping{}, p.fail(err)
	}

	addedAt, err := p.parseDate(captures[dateGroup])
	if err != nil {
		return entities.Clipping{}, p.fail(err)
	}

	content, err := p.readContent()
	if err != nil {
		return entities.Clipping{}, err
	}

	return entities.Clipping{
		DocumentTitle: docTitle,
		Kind:          kind,
		Location:      location,
		AddedAt:       addedAt,
		Content:       content,
	}, nil
}

// readField reads a title or info line: terminator, byte order mark and
// surrounding whitespace removed.
func (p *Parser) readField() (string, error) {
	line, err := p.lines.Next()
	if err != nil {
		return "", err
	}
	line = strings.TrimPrefix(trimNewline(line), byteOrderMark)
	return strings.TrimSpace(line), nil
}

func parseLocationOrPage(startToken, endToken string) (entities.LocationOrPage, error) {
	// Roman numeral pages are not supported and count as 0
	start, err := strconv.Atoi(startToken)
	if err != nil {
		start = 0
	}

	if endToken == "" {
		return entities.Singular(start), nil
	}

	end, err := strconv.Atoi(endToken)
	if err != nil || end < start {
		return entities.LocationOrPage{}, ErrLocationCapture
	}
	return entities.Ranged(start, end), nil
}

func (p *Parser) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range p.dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if !weekdayMatches(layout, value, t) {
			continue
		}
		return t, nil
	}
	return time.Time{}, ErrDateCapture
}

// weekdayMatches rejects timestamps whose weekday name disagrees with the
// date. time.Parse only checks the weekday for syntax.
func weekdayMatches(layout, value string, t time.Time) bool {
	if !strings.HasPrefix(layout, "Monday,") {
		return true
	}
	name, _, ok := strings.Cut(value, ",")
	return ok && name == t.Weekday().String()
}

// readContent collects body lines up to the record separator. Lines holding
// only a terminator are formatting and are dropped.
func (p *Parser) readContent() (string, error) {
	p.content.Reset()
	for {
		line, err := p.lines.Next()
		if errors.Is(err, io.EOF) {
			return "", &ParseError{Line: p.lines.Line(), Err: ErrEndedPrematurely}
		}
		if err != nil {
			return "", err
		}

		if isSeparator(line) {
			break
		}
		if line == "\r\n" || line == "\n" {
			continue
		}
		p.content.WriteString(line)
	}
	return trimNewline(p.content.String()), nil
}

// fail records the failure at the current line and discards the rest of the
// record.
func (p *Parser) fail(cause error) error {
	parseErr := &ParseError{Line: p.lines.Line(), Err: cause}
	if err := p.skipRecord(); err != nil {
		return err
	}
	return parseErr
}

func (p *Parser) skipRecord() error {
	for {
		line, err := p.lines.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if isSeparator(line) {
			return nil
		}
	}
}

func isSeparator(line string) bool {
	return trimNewline(line) == entrySeparator
}

// trimNewline removes a single trailing "\n" or "\r\n".
func trimNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
	}
	return s
}
