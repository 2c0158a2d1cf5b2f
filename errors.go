package nota

import "fmt"

// ErrorKind classifies a [ParseError].
type ErrorKind int8

const (
	// IndentationError reports mixed tab/space indentation, a dedent that
	// matches no open indentation level, or an indented block where none is
	// allowed.
	IndentationError = ErrorKind(iota)
	// SyntaxError reports a malformed key line or a plain-text line outside
	// any multiline string block.
	SyntaxError
	// EscapeError reports an unrecognized backslash escape sequence.
	EscapeError
	// DuplicateKeyError reports a repeated key at the same level. It is only
	// raised under [DuplicateKeysError]; the default policy overwrites.
	DuplicateKeyError
)

func (k ErrorKind) String() string {
	switch k {
	case IndentationError:
		return "IndentationError"
	case SyntaxError:
		return "SyntaxError"
	case EscapeError:
		return "EscapeError"
	case DuplicateKeyError:
		return "DuplicateKeyError"
	default:
		panic("unknown ErrorKind")
	}
}

// ParseError describes why a document could not be parsed. Parsing stops at
// the first error; no partial tree is returned.
type ParseError struct {
	Lno  int // 1-based line number
	Col  int // 1-based column of the offending token
	Kind ErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Lno, e.Col, e.Msg)
}

func parseErrorf(lno, col int, kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Lno: lno, Col: col, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
