package exporters

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	ellipsisOpen  = "[…] "
	ellipsisClose = " […]"
)

// Applied in order over the whole string; later pairs see the output of
// earlier ones.
var dashReplacements = []struct{ old, new string }{
	{"—", " — "}, // em dash
	{" - ", " — "},
	{" – ", " — "}, // en dash
	{"---", " — "},
	{"--", " — "},
	{"\u00a0", " "}, // non-breaking space
}

// FormatContent renders highlight text for display. Dashes and spacing are
// normalized, and an excerpt that starts or ends mid-sentence is marked:
//
//	"foo bar"          -> "[…] foo bar […]"
//	"the sky is blue." -> "The sky is blue."
//	"Foo bar"          -> "Foo bar […]."
//
// Applying FormatContent to its own output returns it unchanged.
func FormatContent(content string) string {
	if content == "" {
		return content
	}

	s := normalizeSpacing(content)
	if s == "" {
		return s
	}

	startOpen := isStartOpen(s)
	endOpen := isEndOpen(s)

	switch {
	case startOpen && endOpen:
		return ellipsisOpen + s + ellipsisClose
	case startOpen:
		first, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(first)) + s[size:]
	case endOpen:
		return s + ellipsisClose + "."
	default:
		return s
	}
}

// normalizeSpacing applies dashReplacements and collapses runs of spaces
// until the text stops changing. The text is padded with a space on both
// sides so a dash at either edge is matched the same way it will be once the
// ellipsis markers surround it.
func normalizeSpacing(content string) string {
	s := strings.TrimSpace(content)
	for {
		next := " " + s + " "
		for _, r := range dashReplacements {
			next = strings.ReplaceAll(next, r.old, r.new)
		}
		for strings.Contains(next, "  ") {
			next = strings.ReplaceAll(next, "  ", " ")
		}
		next = strings.TrimSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}

// isStartOpen treats anything but an uppercase first letter as a sentence
// continued from earlier text. Digits and punctuation therefore count as open.
func isStartOpen(s string) bool {
	if strings.HasPrefix(s, ellipsisOpen) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	return !unicode.IsUpper(first)
}

func isEndOpen(s string) bool {
	if strings.HasSuffix(s, ellipsisClose) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	switch last {
	case '.', '?', '!':
		return false
	default:
		return true
	}
}
