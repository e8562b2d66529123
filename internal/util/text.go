package util

import "strings"

// StorableText drops NUL and other C0 control characters that Postgres text
// columns reject, keeping tabs and line breaks. Extracted table HTML
// occasionally carries them over from the source documents.
func StorableText(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case r < 0x20:
			return -1
		default:
			return r
		}
	}, s)
}
