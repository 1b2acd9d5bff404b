// Package bytespan translates the UTF-8 byte offsets emitted by the platform
// for in-text link spans into code-point ranges usable by rendering layers.
package bytespan

import (
	"strings"
	"unicode/utf8"
)

// Range is a span measured in Unicode code points, not bytes and not
// grapheme clusters.
type Range struct {
	Start  int
	Length int
}

// Resolve locates a link's span inside its owning text. When both byte
// offsets are present the raw UTF-8 bytes [start, end) are sliced out,
// decoded back to text, and the first occurrence of that substring is
// reported. When both are absent the first occurrence of title is reported
// instead. The first-occurrence fallback is not validated against the
// original offsets; duplicate substrings resolve to the earliest match.
func Resolve(text, title string, start, end *int) (Range, bool) {
	needle := title
	if start != nil && end != nil {
		b := []byte(text)
		s, e := *start, *end
		if s < 0 || e < s || e > len(b) {
			return Range{}, false
		}
		needle = string(b[s:e])
	}
	if needle == "" {
		return Range{}, false
	}
	idx := strings.Index(text, needle)
	if idx < 0 {
		return Range{}, false
	}
	return Range{
		Start:  utf8.RuneCountInString(text[:idx]),
		Length: utf8.RuneCountInString(needle),
	}, true
}

// RuneRange converts a byte-offset range [start, end) over b into a
// code-point range by counting bytes that are not UTF-8 continuation bytes
// (top two bits 10). The result counts code points, so a multi-byte rune
// contributes one and a multi-rune grapheme cluster contributes several.
func RuneRange(b []byte, start, end int) (Range, bool) {
	if start < 0 || end < start || end > len(b) {
		return Range{}, false
	}
	return Range{
		Start:  countScalars(b[:start]),
		Length: countScalars(b[start:end]),
	}, true
}

func countScalars(b []byte) int {
	n := 0
	for _, c := range b {
		if c&0xC0 != 0x80 {
			n++
		}
	}
	return n
}
