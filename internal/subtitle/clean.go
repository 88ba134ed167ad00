package subtitle

import "strings"

// StripBraceTags removes ASS override blocks like {\an8} or {\pos(10,20)}.
// Nesting is tracked with a depth counter: an unmatched '}' at depth zero is
// ignored, an unmatched '{' suppresses the rest of the string.
func StripBraceTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, c := range s {
		switch {
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// StripAngleTags removes inline markup like <i>, <b> or <font ...> with the
// same depth-counter rule as StripBraceTags.
func StripAngleTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, c := range s {
		switch {
		case c == '<':
			depth++
		case c == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// CleanText normalizes raw subtitle text for storage: override blocks and
// markup tags are stripped, the literal escapes `\N` and `\n` become real
// line breaks, and surrounding whitespace is trimmed. Returns "" when
// nothing printable remains; such entries are discarded by the loaders.
func CleanText(s string) string {
	r := StripAngleTags(StripBraceTags(s))

	var b strings.Builder
	b.Grow(len(r))
	for i := 0; i < len(r); i++ {
		if r[i] == '\\' && i+1 < len(r) && (r[i+1] == 'N' || r[i+1] == 'n') {
			b.WriteByte('\n')
			i++
			continue
		}
		b.WriteByte(r[i])
	}

	return strings.Trim(b.String(), " \t\r\n")
}
