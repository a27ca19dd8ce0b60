// text.go holds the string cleaners shared by the content sanitizer and the
// block strategies.
//
// Control characters are removed byte by byte. Bytes at or above 0x80 are
// never touched, so non-ASCII text survives and invalid UTF-8 is left for
// validation to reject rather than being silently repaired here.
//
// Every cleaner is idempotent: cleaning its own output changes nothing.

package sanitize

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var (
	reNotToken   = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	reWhitespace = regexp.MustCompile(`[\s\x{85}\p{Z}]+`)
	reCarriage   = regexp.MustCompile(`\r+\n?`)
	reBlankRun   = regexp.MustCompile(`\n{3,}`)
)

// Scalar coerces a scalar value (string, number, bool, nil) to a string.
// Maps, lists and other composite values return an error.
func Scalar(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any, []map[string]any:
		return "", errNotScalar
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", errNotScalar
	}
	return s, nil
}

// StripControl removes ASCII control characters (0x00-0x1F, 0x7F) from s,
// except those listed in keep.
func StripControl(s, keep string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 || c == 0x7f) && strings.IndexByte(keep, c) < 0 {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Newlines converts "\r\n" and runs of bare "\r" to a single "\n".
func Newlines(s string) string {
	return reCarriage.ReplaceAllString(s, "\n")
}

// Type trims s and removes every character outside [A-Za-z0-9_].
func Type(s string) string {
	return reNotToken.ReplaceAllString(strings.TrimSpace(s), "")
}

// Title trims s, strips control characters and collapses whitespace runs
// to a single space. Unicode spaces such as U+00A0 and U+2003 count as
// whitespace, matching what strings.TrimSpace removes at the ends.
func Title(s string) string {
	s = StripControl(strings.TrimSpace(s), " \t\n\r")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Summary normalises line endings, strips control characters other than
// newline and tab, trims, and collapses three or more consecutive newlines
// to a paragraph break.
func Summary(s string) string {
	s = StripControl(Newlines(s), "\n\t")
	s = strings.TrimSpace(s)
	return reBlankRun.ReplaceAllString(s, "\n\n")
}

// Source normalises line endings and strips control characters other than
// newline and tab. Leading and trailing whitespace is preserved because it
// can be significant in block bodies.
func Source(s string) string {
	return StripControl(Newlines(s), "\n\t")
}
