package nota

import (
	"strconv"
	"strings"
)

// NewlineStyle selects the line terminator used by the serializer.
type NewlineStyle int8

const (
	NewlineLF = NewlineStyle(iota)
	NewlineCRLF
)

func (n NewlineStyle) chars() string {
	switch n {
	case NewlineLF:
		return "\n"
	case NewlineCRLF:
		return "\r\n"
	default:
		panic("unknown NewlineStyle")
	}
}

// SerializeOptions configures [SerializeWithOptions].
type SerializeOptions struct {
	Indent  int // spaces per nesting level; 2 if zero or negative
	Newline NewlineStyle
}

// Serialize emits the canonical text form of a document. The root must be a
// Map; the sentinel, an empty List and an empty Map all serialize as `nil`,
// which is the one intentionally lossy point of the notation. Serialization
// of a well-formed tree cannot fail; a malformed tree (an unknown variant,
// or a List or Set element that is itself a List or Set, which the notation
// cannot express) is a programming error and panics.
func Serialize(v *Value) []byte {
	return SerializeWithOptions(v, SerializeOptions{})
}

// SerializeWithOptions is [Serialize] with explicit options.
func SerializeWithOptions(v *Value, opts SerializeOptions) []byte {
	if v.kind != Map {
		panic("nota: document root must be a Map, got " + v.kind.String())
	}
	width := opts.Indent
	if width <= 0 {
		width = 2
	}
	s := &serializer{indent: strings.Repeat(" ", width), nl: opts.Newline.chars()}
	s.writeMap(v, 0)
	return []byte(s.b.String())
}

type serializer struct {
	b      strings.Builder
	indent string
	nl     string
}

func (s *serializer) line(depth int, text string) {
	if text != "" {
		for range depth {
			s.b.WriteString(s.indent)
		}
	}
	s.b.WriteString(text)
	s.b.WriteString(s.nl)
}

func (s *serializer) writeMap(m *Value, depth int) {
	for key, val := range m.Entries() {
		head := "(" + encodeKey(key) + ")"
		switch val.kind {
		case Nil:
			s.line(depth, head+" nil")
		case Bool:
			s.line(depth, head+" "+strconv.FormatBool(val.b))
		case Int:
			s.line(depth, head+" "+strconv.FormatInt(val.i, 10))
		case Float:
			s.line(depth, head+" "+formatFloat(val.f))
		case String:
			if (strings.Contains(val.s, "\n") || reCoerces(val.s)) && blockSafe(val.s) {
				s.line(depth, head)
				for _, content := range strings.Split(val.s, "\n") {
					s.line(depth+1, escapeBlockLine(content))
				}
			} else {
				s.line(depth, head+" "+encodeInline(val.s, false))
			}
		case List:
			if len(val.items) == 0 {
				s.line(depth, head+" nil")
			} else {
				s.line(depth, head)
				s.writeItems(val, depth+1, "> ")
			}
		case Set:
			if len(val.items) == 0 {
				s.line(depth, head+" nil")
			} else {
				s.line(depth, head)
				s.writeItems(val, depth+1, ">| ")
			}
		case Map:
			if len(val.keys) == 0 {
				s.line(depth, head+" nil")
			} else {
				s.line(depth, head)
				s.writeMap(val, depth+1)
			}
		default:
			panic("unknown Kind")
		}
	}
}

// writeItems emits the elements of a List or Set, one marker line each.
// A Map element uses the list-of-objects form under a (item) marker; the
// marker text is discarded on parse, so its spelling is arbitrary.
func (s *serializer) writeItems(v *Value, depth int, marker string) {
	for _, item := range v.items {
		switch item.kind {
		case Nil:
			s.line(depth, marker+"nil")
		case Bool:
			s.line(depth, marker+strconv.FormatBool(item.b))
		case Int:
			s.line(depth, marker+strconv.FormatInt(item.i, 10))
		case Float:
			s.line(depth, marker+formatFloat(item.f))
		case String:
			s.line(depth, marker+encodeInline(item.s, true))
		case Map:
			if len(item.keys) == 0 {
				s.line(depth, marker+"nil")
			} else {
				s.line(depth, marker+"(item)")
				s.writeMap(item, depth+1)
			}
		case List, Set:
			panic("nota: a List or Set element cannot itself be a List or Set; wrap it in a Map")
		default:
			panic("unknown Kind")
		}
	}
}

// reCoerces reports whether the text of a String, written inline, would read
// back as a different variant. Such strings only take the block form, where
// content is literal. Item lines cannot own blocks, so a hand-built item
// String of this shape reads back as the coerced variant.
func reCoerces(s string) bool {
	switch s {
	case "true", "false", "nil":
		return true
	}
	return intRegexp.MatchString(s) || floatRegexp.MatchString(s)
}

// formatFloat renders f so the result re-coerces as a Float: the mantissa
// always carries a decimal point.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if !strings.Contains(s[:i], ".") {
			s = s[:i] + ".0" + s[i:]
		}
		return s
	}
	if !strings.Contains(s, ".") && !strings.ContainsAny(s, "IN") { // +Inf, NaN
		s += ".0"
	}
	return s
}

// blockSafe reports whether s can be written as a multiline block and read
// back verbatim. When it cannot (a first line that would read as a key or
// item line, interior whitespace-only lines, a trailing blank line, or a
// line whose text begins with an escaped hash), the serializer falls back
// to the inline form with escaped newlines.
func blockSafe(s string) bool {
	if strings.Contains(s, "\r") {
		return false
	}
	ls := strings.Split(s, "\n")
	first := ls[0]
	if first == "" || first[0] == ' ' || first[0] == '\t' || first[0] == '(' || first[0] == '>' {
		return false
	}
	if ls[len(ls)-1] == "" {
		return false
	}
	for _, l := range ls {
		trimmed := strings.TrimLeft(l, " \t")
		if l != "" && trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, `\#`) {
			return false
		}
	}
	return true
}

// escapeBlockLine escapes the first non-whitespace character of a block
// line when it is a hash, which would otherwise read as a comment.
func escapeBlockLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		ws := line[:len(line)-len(trimmed)]
		return ws + `\` + trimmed
	}
	return line
}
