package kindle

import (
	"bufio"
	"errors"
	"io"
)

// LineReader yields the lines of a clippings file one at a time, keeping the
// line terminator, and counts how many lines have been consumed.
type LineReader struct {
	reader *bufio.Reader
	line   int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// Next returns the next raw line including its terminator. It returns io.EOF
// once the stream holds no more bytes; a final line without a terminator is
// returned normally first.
func (r *LineReader) Next() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" {
		return "", io.EOF
	}
	r.line++
	return line, nil
}

// Line is the number of lines read so far.
func (r *LineReader) Line() int {
	return r.line
}
