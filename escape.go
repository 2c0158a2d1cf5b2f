package nota

import "strings"

// The escape codec covers the six sequences of the notation. Decoding and
// encoding are exact inverses over representable text: for any string s,
// decoding the encoded form yields s again.

// decodeEscapes replaces backslash escape sequences in s. On failure it
// returns the offending sequence and its 0-based byte offset in s.
func decodeEscapes(s string) (decoded, badEscape string, offset int) {
	if !strings.ContainsRune(s, '\\') {
		return s, "", 0
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", `\`, i
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '(':
			b.WriteByte('(')
		case ')':
			b.WriteByte(')')
		case '#':
			b.WriteByte('#')
		default:
			return "", s[i : i+2], i
		}
		i++
	}
	return b.String(), "", 0
}

// encodeKey escapes s for use between key parentheses. Parentheses and
// backslashes must be escaped so the closing delimiter scan stops in the
// right place; newlines and tabs have no literal single-line form.
func encodeKey(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch c {
		case '\r':
			// No escape sequence exists for it, and a literal one would be
			// read back as a line break.
			panic("nota: carriage return is not representable")
		case '\\':
			b.WriteString(`\\`)
		case '(':
			b.WriteString(`\(`)
		case ')':
			b.WriteString(`\)`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// encodeInline escapes s for use as a single-line value. A leading # would
// otherwise read as a comment marker in block context, and a newline has no
// single-line form. When item is set, a value of the exact (key) shape is
// escaped so it cannot be mistaken for a list-of-objects opener.
func encodeInline(s string, item bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\r':
			panic("nota: carriage return is not representable")
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '#' && i == 0:
			b.WriteString(`\#`)
		case c == '(' && i == 0 && item && looksLikeMarker(s):
			b.WriteString(`\(`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// looksLikeMarker reports whether s has the exact (key) shape that would
// open a list-of-objects element after an item marker.
func looksLikeMarker(s string) bool {
	if len(s) < 2 || s[0] != '(' {
		return false
	}
	end := closingParen(s)
	return end == len(s)-1
}

// closingParen returns the index of the first unescaped ')' in s, or -1.
// s must start with '('.
func closingParen(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = true
		case ')':
			return i
		}
	}
	return -1
}
