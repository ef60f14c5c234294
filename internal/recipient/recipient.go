// Package recipient turns free-form pasted text into a list of recipient
// addresses.
//
// The parser is a syntactic prefilter only: it splits on newlines, commas and
// semicolons, trims each piece and keeps the ones that contain an "@". It does
// not validate domains, check MX records or normalize case. Input order and
// duplicates are preserved.
//
//	recipient.Parse("a@b.com, , bad, c@d.com\nc@d.com")
//	// []string{"a@b.com", "c@d.com", "c@d.com"}
package recipient

import "strings"

// isSeparator reports whether r splits two recipients.
func isSeparator(r rune) bool {
	return r == '\n' || r == ',' || r == ';'
}

// Parse splits raw text into recipients.
// It never returns nil; empty input yields an empty slice.
func Parse(raw string) []string {
	out := make([]string, 0, strings.Count(raw, "@"))
	for piece := range strings.FieldsFuncSeq(raw, isSeparator) {
		if r, ok := clean(piece); ok {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of recipients Parse would return.
// Safe to call on every keystroke.
func Count(raw string) int {
	n := 0
	for piece := range strings.FieldsFuncSeq(raw, isSeparator) {
		if _, ok := clean(piece); ok {
			n++
		}
	}
	return n
}

func clean(piece string) (string, bool) {
	piece = strings.TrimSpace(piece)
	if piece == "" || !strings.Contains(piece, "@") {
		return "", false
	}
	return piece, true
}
