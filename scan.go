package nota

import (
	"iter"
	"regexp"
	"strings"
)

// tokenKind enumerates the normalized token stream produced by tokenize.
type tokenKind int8

const (
	tokKey = tokenKind(iota) // content: decoded key text
	tokScalar                // content: raw inline token, not yet coerced
	tokNoValue               // key or item with neither inline value nor block
	tokListItem
	tokSetItem
	tokObjectItem // "> (marker)" or ">| (marker)"; the marker is discarded
	tokMultiline  // content: assembled multiline string
	tokIndent     // block: the kind of block being opened
	tokOutdent
	tokError // content: message; errKind: classification
)

// blockKind is the container kind of one indentation level.
type blockKind int8

const (
	blockMap = blockKind(iota)
	blockList
	blockSet
)

func (b blockKind) String() string {
	switch b {
	case blockMap:
		return "key"
	case blockList:
		return "list"
	case blockSet:
		return "set"
	default:
		panic("unknown blockKind")
	}
}

type token struct {
	kind    tokenKind
	content string
	col     int       // 1-based column of the token
	block   blockKind // for tokIndent
	errKind ErrorKind // for tokError
}

var lineRegexp = regexp.MustCompile("\r\n|\r|\n")

func lines(input string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		lno := 1
		for match := lineRegexp.FindStringIndex(input); match != nil; match = lineRegexp.FindStringIndex(input) {
			if !yield(lno, input[:match[0]]) {
				return
			}
			input = input[match[1]:]
			lno++
		}
		yield(lno, input)
	}
}

// lineKind is the Line Classifier's verdict on one structural line.
type lineKind int8

const (
	lineKey = lineKind(iota)
	lineListItem
	lineSetItem
	linePlain
)

type classified struct {
	kind     lineKind
	key      string // lineKey: decoded key text
	token    string // inline scalar token, valid when hasToken
	hasToken bool
	object   bool // item of the exact "(marker)" shape
	col      int  // column of the key or item marker
	tokCol   int  // column of the inline token
	bad      *token
}

// classify splits the non-blank, non-comment remainder of a line. indent is
// the indentation width, used only for column arithmetic.
func classify(rest string, indent int) classified {
	c := classified{col: indent + 1}
	switch {
	case strings.HasPrefix(rest, "("):
		c.kind = lineKey
		end := closingParen(rest)
		if end < 0 {
			c.bad = &token{kind: tokError, errKind: SyntaxError, col: indent + 1,
				content: "missing closing parenthesis in key"}
			return c
		}
		key, bad, off := decodeEscapes(rest[1:end])
		if bad != "" {
			c.bad = &token{kind: tokError, errKind: EscapeError, col: indent + 2 + off,
				content: "invalid escape sequence " + bad}
			return c
		}
		c.key = key
		after := rest[end+1:]
		if after != "" {
			c.hasToken = true
			c.tokCol = indent + end + 2
			if after[0] == ' ' {
				after = after[1:]
				c.tokCol++
			}
			c.token = after
		}
	case rest == ">" || rest == ">|":
		if rest == ">" {
			c.kind = lineListItem
		} else {
			c.kind = lineSetItem
		}
	case strings.HasPrefix(rest, "> "):
		c.kind = lineListItem
		c.token = rest[2:]
		c.hasToken = true
		c.tokCol = indent + 3
		c.object = looksLikeMarker(c.token)
	case strings.HasPrefix(rest, ">| "):
		c.kind = lineSetItem
		c.token = rest[3:]
		c.hasToken = true
		c.tokCol = indent + 4
		c.object = looksLikeMarker(c.token)
	default:
		c.kind = linePlain
	}
	return c
}

type level struct {
	indent int
	state  blockKind
}

// pendingBlock remembers a key or object item whose value may be supplied
// by a following indented block.
type pendingBlock struct {
	active bool
	indent int  // indentation of the owning line
	object bool // owned by a "(marker)" item: the block must be a mapping
}

// multiline collects the lines of an active multiline string block.
type multiline struct {
	active bool
	owner  int    // indentation of the owning key line
	prefix string // indentation of the first content line
	value  []string
	blanks int // interior blank lines not yet committed
	lno    int
}

func (m *multiline) add(content string) {
	for ; m.blanks > 0; m.blanks-- {
		m.value = append(m.value, "")
	}
	m.value = append(m.value, content)
}

func (m *multiline) join() string {
	return strings.Join(m.value, "\n")
}

// tokenize yields the normalized token stream for input with 1-based line
// numbers. Indent and Outdent are always paired; every tokKey, tokListItem
// and tokSetItem is followed by a value token, a tokNoValue, or a tokIndent
// block. The first tokError ends the stream.
func tokenize(input string, opts ParseOptions) iter.Seq2[int, token] {
	return func(yield func(int, token) bool) {
		stack := []level{{indent: 0, state: blockMap}}
		pending := pendingBlock{}
		block := multiline{}
		indentChar := byte(0)
		lastLno := 0

		emit := func(lno int, t token) bool {
			lastLno = lno
			return yield(lno, t)
		}
		fail := func(lno, col int, kind ErrorKind, msg string) {
			yield(lno, token{kind: tokError, errKind: kind, col: col, content: msg})
		}

		for lno, content := range lines(input) {
			rest := strings.TrimLeft(content, " \t")
			indent := len(content) - len(rest)

			if rest == "" {
				if block.active && len(block.value) > 0 {
					block.blanks++
				}
				continue
			}

			if block.active {
				// Comment lines inside the block are dropped wherever they
				// sit; a writer escapes a literal leading # as \#.
				if rest[0] == '#' {
					continue
				}
				if indent > block.owner {
					line := strings.TrimPrefix(content, block.prefix)
					if len(line) == len(content) {
						line = rest
					}
					block.add(unescapeLeadingHash(line))
					continue
				}
				if !emit(block.lno, token{kind: tokMultiline, content: block.join()}) {
					return
				}
				block = multiline{}
			}

			if rest[0] == '#' {
				continue
			}

			indentStr := content[:indent]
			if i := strings.IndexFunc(indentStr, func(r rune) bool { return byte(r) != indentStr[0] }); i >= 0 {
				fail(lno, i+1, IndentationError, "mixed tab and space indentation")
				return
			}
			if indent > 0 {
				if indentStr[0] == '\t' && !opts.TabIndentation {
					fail(lno, 1, IndentationError, "tab indentation is not allowed")
					return
				}
				if indentChar == 0 {
					indentChar = indentStr[0]
				} else if indentStr[0] != indentChar {
					fail(lno, 1, IndentationError, "mixed tab and space indentation")
					return
				}
			}

			c := classify(rest, indent)
			if c.bad != nil {
				yield(lno, *c.bad)
				return
			}

			if pending.active {
				if indent > pending.indent {
					if c.kind == linePlain && !pending.object {
						block = multiline{active: true, owner: pending.indent,
							prefix: content[:indent], lno: lno}
						block.add(unescapeLeadingHash(rest))
						pending = pendingBlock{}
						continue
					}
					var state blockKind
					switch c.kind {
					case lineKey:
						state = blockMap
					case lineListItem:
						state = blockList
					case lineSetItem:
						state = blockSet
					case linePlain:
						fail(lno, c.col, SyntaxError, "expected a key inside a (marker) item")
						return
					}
					if pending.object && state != blockMap {
						fail(lno, c.col, SyntaxError, "expected a key inside a (marker) item")
						return
					}
					stack = append(stack, level{indent: indent, state: state})
					pending = pendingBlock{}
					if !emit(lno, token{kind: tokIndent, block: state}) {
						return
					}
				} else {
					pending = pendingBlock{}
					if !emit(lno, token{kind: tokNoValue}) {
						return
					}
				}
			}

			popped := false
			for indent < stack[len(stack)-1].indent {
				stack = stack[:len(stack)-1]
				popped = true
				if !emit(lno, token{kind: tokOutdent}) {
					return
				}
			}
			top := stack[len(stack)-1]
			if indent > top.indent {
				if popped {
					fail(lno, 1, IndentationError, "unindent does not match any outer indentation level")
				} else {
					fail(lno, 1, IndentationError, "unexpected indent")
				}
				return
			}

			switch c.kind {
			case lineKey:
				if top.state != blockMap {
					fail(lno, c.col, SyntaxError, "unexpected key in a "+top.state.String()+" block")
					return
				}
				if !emit(lno, token{kind: tokKey, content: c.key, col: c.col}) {
					return
				}
			case lineListItem:
				if top.state != blockList {
					fail(lno, c.col, SyntaxError, "unexpected > item in a "+top.state.String()+" block")
					return
				}
				if !emit(lno, token{kind: tokListItem, col: c.col}) {
					return
				}
			case lineSetItem:
				if top.state != blockSet {
					fail(lno, c.col, SyntaxError, "unexpected >| item in a "+top.state.String()+" block")
					return
				}
				if !emit(lno, token{kind: tokSetItem, col: c.col}) {
					return
				}
			case linePlain:
				fail(lno, c.col, SyntaxError, "plain text outside of a multiline string block")
				return
			}

			switch {
			case c.object:
				if !emit(lno, token{kind: tokObjectItem, col: c.tokCol}) {
					return
				}
				pending = pendingBlock{active: true, indent: indent, object: true}
			case c.hasToken:
				if !emit(lno, token{kind: tokScalar, content: c.token, col: c.tokCol}) {
					return
				}
			case c.kind == lineKey:
				pending = pendingBlock{active: true, indent: indent}
			default:
				// A bare > or >| item has no inline value and takes no block.
				if !emit(lno, token{kind: tokNoValue, col: c.col}) {
					return
				}
			}
		}

		if block.active {
			if !emit(block.lno, token{kind: tokMultiline, content: block.join()}) {
				return
			}
		}
		if pending.active {
			if !emit(lastLno, token{kind: tokNoValue}) {
				return
			}
		}
		for len(stack) > 1 {
			stack = stack[:len(stack)-1]
			if !emit(lastLno, token{kind: tokOutdent}) {
				return
			}
		}
	}
}

// unescapeLeadingHash removes the backslash from a \# that begins the text
// of a multiline block line, keeping any indentation before it. Other
// escape sequences are left untouched: block content is otherwise literal.
func unescapeLeadingHash(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, `\#`) {
		ws := line[:len(line)-len(trimmed)]
		return ws + trimmed[1:]
	}
	return line
}
