package nota

import "unicode/utf8"

// DuplicateKeyPolicy controls what happens when a mapping repeats a key.
type DuplicateKeyPolicy int8

const (
	// DuplicateKeysOverwrite silently replaces the earlier value, keeping
	// the key's original position. This is the default.
	DuplicateKeysOverwrite = DuplicateKeyPolicy(iota)
	// DuplicateKeysError fails the parse with a DuplicateKeyError.
	DuplicateKeysError
)

// ParseOptions configures [ParseWithOptions].
type ParseOptions struct {
	DuplicateKeys  DuplicateKeyPolicy
	TabIndentation bool // permit tabs as the document's indentation character
}

// Parse parses a complete document into its value tree. The root of the
// tree is always a Map. Parsing is atomic: the first error aborts it and no
// partial tree is returned. The error is always a [*ParseError].
func Parse(data []byte) (*Value, error) {
	return ParseWithOptions(data, ParseOptions{})
}

// ParseWithOptions is [Parse] with explicit options.
func ParseWithOptions(data []byte, opts ParseOptions) (*Value, error) {
	input := string(data)
	if !utf8.ValidString(input) {
		lno, col := locateInvalidUTF8(input)
		return nil, parseErrorf(lno, col, SyntaxError, "invalid UTF-8")
	}

	root := &Value{kind: Map}
	stack := []*Value{root}
	keys := []string{""} // pending key, parallel to stack, unused for items

	attach := func(v *Value) {
		top := stack[len(stack)-1]
		if top.kind == Map {
			top.setKey(keys[len(keys)-1], v)
		} else {
			top.appendItem(v)
		}
	}

	for lno, tok := range tokenize(input, opts) {
		switch tok.kind {
		case tokKey:
			top := stack[len(stack)-1]
			if opts.DuplicateKeys == DuplicateKeysError {
				if _, ok := top.Get(tok.content); ok {
					return nil, parseErrorf(lno, tok.col, DuplicateKeyError,
						"duplicate key %q", tok.content)
				}
			}
			keys[len(keys)-1] = tok.content

		case tokListItem, tokSetItem, tokObjectItem:
			// The container kind was fixed when the block opened; the
			// (marker) of an object item is discarded here.

		case tokScalar:
			v, bad, off := coerceScalar(tok.content)
			if bad != "" {
				return nil, parseErrorf(lno, tok.col+off, EscapeError,
					"invalid escape sequence %s", bad)
			}
			attach(v)

		case tokMultiline:
			attach(StringValue(tok.content))

		case tokNoValue:
			attach(nilValue)

		case tokIndent:
			var child *Value
			switch tok.block {
			case blockMap:
				child = &Value{kind: Map}
			case blockList:
				child = &Value{kind: List}
			case blockSet:
				child = &Value{kind: Set}
			}
			stack = append(stack, child)
			keys = append(keys, "")

		case tokOutdent:
			// Attach on close so set deduplication compares completed
			// values, not containers still being filled.
			child := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			keys = keys[:len(keys)-1]
			attach(child)

		case tokError:
			return nil, &ParseError{Lno: lno, Col: tok.col, Kind: tok.errKind, Msg: tok.content}

		default:
			panic("unknown tokenKind")
		}
	}

	return root, nil
}

func locateInvalidUTF8(input string) (lno, col int) {
	for lno, line := range lines(input) {
		for i := 0; i < len(line); {
			r, size := utf8.DecodeRuneInString(line[i:])
			if r == utf8.RuneError && size == 1 {
				return lno, i + 1
			}
			i += size
		}
	}
	return 1, 1
}
