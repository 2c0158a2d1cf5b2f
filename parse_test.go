package nota_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	nota "github.com/notalang/nota-go"
)

// dump renders a tree in a compact deterministic form for comparison.
// Floats carry an f suffix so 1 and 1.0 stay distinguishable.
func dump(v *nota.Value) string {
	switch v.Kind() {
	case nota.Nil:
		return "nil"
	case nota.Bool:
		return strconv.FormatBool(v.Bool())
	case nota.Int:
		return strconv.FormatInt(v.Int(), 10)
	case nota.Float:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64) + "f"
	case nota.String:
		return strconv.Quote(v.Text())
	case nota.List, nota.Set:
		var parts []string
		for item := range v.Items() {
			parts = append(parts, dump(item))
		}
		if v.Kind() == nota.Set {
			return "<" + strings.Join(parts, ",") + ">"
		}
		return "[" + strings.Join(parts, ",") + "]"
	case nota.Map:
		var parts []string
		for key, val := range v.Entries() {
			parts = append(parts, fmt.Sprintf("%s:%s", strconv.Quote(key), dump(val)))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		panic("unhandled kind")
	}
}

func TestParse(t *testing.T) {
	for _, test := range []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "scalar coercion",
			input: "(s) hello\n" +
				"(b) true\n" +
				"(b2) false\n" +
				"(i) 42\n" +
				"(neg) -7\n" +
				"(plus) +8\n" +
				"(f) 3.14\n" +
				"(e) 1.5e3\n" +
				"(z) nil\n",
			want: `{"s":"hello","b":true,"b2":false,"i":42,"neg":-7,"plus":8,"f":3.14f,"e":1500f,"z":nil}`,
		},
		{
			name: "coercion is case sensitive and exact",
			input: "(cap) True\n" +
				"(lead) 007\n" +
				"(dot) .5\n" +
				"(trail) 5.\n" +
				"(inf) Infinity\n" +
				"(nan) NaN\n" +
				"(big) 99999999999999999999\n",
			want: `{"cap":"True","lead":7,"dot":".5","trail":"5.","inf":"Infinity","nan":"NaN","big":"99999999999999999999"}`,
		},
		{
			name:  "inline hash is literal",
			input: "(a) #5\n(b) x # y\n",
			want:  `{"a":"#5","b":"x # y"}`,
		},
		{
			name:  "inline escapes",
			input: `(a) one\ntwo` + "\n" + `(b) tab\there` + "\n" + `(c) back\\slash` + "\n" + `(d) \#x` + "\n" + `(e) \(item\)` + "\n",
			want:  `{"a":"one\ntwo","b":"tab\there","c":"back\\slash","d":"#x","e":"(item)"}`,
		},
		{
			name:  "key escapes and verbatim key whitespace",
			input: `(a\)b) 1` + "\n" + "( spaced key ) 2\n() 3\n",
			want:  `{"a)b":1," spaced key ":2,"":3}`,
		},
		{
			name:  "inline value whitespace is preserved",
			input: "(a)  padded\n(b) x \n(c) \n",
			want:  `{"a":" padded","b":"x ","c":""}`,
		},
		{
			name: "nested mappings",
			input: "(user)\n" +
				"  (name) John\n" +
				"  (age) 30\n" +
				"(active) true\n",
			want: `{"user":{"name":"John","age":30},"active":true}`,
		},
		{
			name: "ordered list",
			input: "(colors)\n" +
				"  > red\n" +
				"  > green\n" +
				"  > red\n",
			want: `{"colors":["red","green","red"]}`,
		},
		{
			name: "set deduplicates keeping first occurrence",
			input: "(tags)\n" +
				"  >| a\n" +
				"  >| b\n" +
				"  >| a\n",
			want: `{"tags":<"a","b">}`,
		},
		{
			name: "set dedup compares structurally",
			input: "(xs)\n" +
				"  >| 1\n" +
				"  >| 1.0\n" +
				"  >| 1\n",
			want: `{"xs":<1,1f>}`,
		},
		{
			name: "list of objects discards the marker",
			input: "(items)\n" +
				"    > (item)\n" +
				"        (id) 1\n" +
				"    > (item)\n" +
				"        (id) 2\n",
			want: `{"items":[{"id":1},{"id":2}]}`,
		},
		{
			name: "object items in sets deduplicate complete values",
			input: "(xs)\n" +
				"  >| (m)\n" +
				"    (a) 1\n" +
				"  >| (m)\n" +
				"    (a) 1\n" +
				"  >| (m)\n" +
				"    (a) 2\n",
			want: `{"xs":<{"a":1},{"a":2}>}`,
		},
		{
			name:  "marker item with extra text is a scalar",
			input: "(xs)\n  > (item) extra\n",
			want:  `{"xs":["(item) extra"]}`,
		},
		{
			name:  "marker item without a block is the sentinel",
			input: "(xs)\n  > (item)\n  > 1\n",
			want:  `{"xs":[nil,1]}`,
		},
		{
			name:  "bare items are the sentinel",
			input: "(xs)\n  >\n  > nil\n  > x\n",
			want:  `{"xs":[nil,nil,"x"]}`,
		},
		{
			name:  "key without value is the sentinel",
			input: "(a)\n(b) 1\n",
			want:  `{"a":nil,"b":1}`,
		},
		{
			name:  "trailing key without value is the sentinel",
			input: "(a) 1\n(b)",
			want:  `{"a":1,"b":nil}`,
		},
		{
			name: "multiline string preserves blanks and unescapes a leading hash",
			input: "(text)\n" +
				"    line one\n" +
				"\n" +
				"    \\# not a comment\n",
			want: `{"text":"line one\n\n# not a comment"}`,
		},
		{
			name: "multiline string keeps extra indentation",
			input: "(code)\n" +
				"  if ready {\n" +
				"    go()\n" +
				"  }\n",
			want: `{"code":"if ready {\n  go()\n}"}`,
		},
		{
			name: "comments inside multiline blocks are dropped",
			input: "(text)\n" +
				"  alpha\n" +
				"  # dropped\n" +
				"  beta\n",
			want: `{"text":"alpha\nbeta"}`,
		},
		{
			name: "multiline block ends at the owner's indentation",
			input: "(a)\n" +
				"  (text)\n" +
				"    alpha\n" +
				"  (b) 1\n",
			want: `{"a":{"text":"alpha","b":1}}`,
		},
		{
			name: "structural lines inside a block are content",
			input: "(text)\n" +
				"  alpha\n" +
				"  (b) 1\n" +
				"  > c\n",
			want: `{"text":"alpha\n(b) 1\n> c"}`,
		},
		{
			name:  "comment only document is an empty mapping",
			input: "# one\n  # two\n\n# three\n",
			want:  `{}`,
		},
		{
			name:  "empty document is an empty mapping",
			input: "",
			want:  `{}`,
		},
		{
			name:  "comments between structural lines are ignored",
			input: "(a)\n# note\n  (b) 1\n",
			want:  `{"a":{"b":1}}`,
		},
		{
			name:  "duplicate keys overwrite in place",
			input: "(a) 1\n(b) 2\n(a) 3\n",
			want:  `{"a":3,"b":2}`,
		},
		{
			name:  "crlf line endings",
			input: "(a) 1\r\n(b)\r\n  (c) 2\r\n",
			want:  `{"a":1,"b":{"c":2}}`,
		},
		{
			name: "deeply nested structures",
			input: "(a)\n" +
				"  (b)\n" +
				"    > (item)\n" +
				"      (c)\n" +
				"        >| x\n",
			want: `{"a":{"b":[{"c":<"x">}]}}`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := nota.Parse([]byte(test.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dump(got) != test.want {
				t.Errorf("input %#v\nexpected %s\ngot      %s", test.input, test.want, dump(got))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		input string
		opts  nota.ParseOptions
		kind  nota.ErrorKind
		want  string
	}{
		{
			name:  "unterminated key",
			input: "(a 1\n",
			kind:  nota.SyntaxError,
			want:  "1:1: missing closing parenthesis in key",
		},
		{
			name:  "plain text at the top level",
			input: "hello\n",
			kind:  nota.SyntaxError,
			want:  "1:1: plain text outside of a multiline string block",
		},
		{
			name:  "tab indentation rejected by default",
			input: "(a)\n\t(b) 1\n",
			kind:  nota.IndentationError,
			want:  "2:1: tab indentation is not allowed",
		},
		{
			name:  "tabs and spaces cannot mix within a line",
			input: "(a)\n \t(b) 1\n",
			kind:  nota.IndentationError,
			want:  "2:2: mixed tab and space indentation",
		},
		{
			name:  "tabs and spaces cannot mix within a document",
			input: "(a)\n\t(b) 1\n(c)\n  (d) 1\n",
			opts:  nota.ParseOptions{TabIndentation: true},
			kind:  nota.IndentationError,
			want:  "4:1: mixed tab and space indentation",
		},
		{
			name:  "indent after an inline value",
			input: "(a) 1\n  (b) 2\n",
			kind:  nota.IndentationError,
			want:  "2:1: unexpected indent",
		},
		{
			name:  "indented first line",
			input: "  (a) 1\n",
			kind:  nota.IndentationError,
			want:  "1:1: unexpected indent",
		},
		{
			name:  "dedent matching no open level",
			input: "(a)\n    (b) 1\n  (c) 2\n",
			kind:  nota.IndentationError,
			want:  "3:1: unindent does not match any outer indentation level",
		},
		{
			name:  "bad escape in a value",
			input: `(a) \q` + "\n",
			kind:  nota.EscapeError,
			want:  `1:5: invalid escape sequence \q`,
		},
		{
			name:  "truncated escape in a value",
			input: "(a) x\\\n",
			kind:  nota.EscapeError,
			want:  `1:6: invalid escape sequence \`,
		},
		{
			name:  "bad escape in a key",
			input: `(a\qb) 1` + "\n",
			kind:  nota.EscapeError,
			want:  `1:3: invalid escape sequence \q`,
		},
		{
			name:  "set item in a list block",
			input: "(xs)\n  > a\n  >| b\n",
			kind:  nota.SyntaxError,
			want:  "3:3: unexpected >| item in a list block",
		},
		{
			name:  "list item in a set block",
			input: "(xs)\n  >| a\n  > b\n",
			kind:  nota.SyntaxError,
			want:  "3:3: unexpected > item in a set block",
		},
		{
			name:  "key in a list block",
			input: "(xs)\n  > a\n  (b) 1\n",
			kind:  nota.SyntaxError,
			want:  "3:3: unexpected key in a list block",
		},
		{
			name:  "item at the top level",
			input: "> a\n",
			kind:  nota.SyntaxError,
			want:  "1:1: unexpected > item in a key block",
		},
		{
			name:  "marker item must contain keys",
			input: "(xs)\n  > (m)\n    > 1\n",
			kind:  nota.SyntaxError,
			want:  "3:5: expected a key inside a (marker) item",
		},
		{
			name:  "marker item cannot hold text",
			input: "(xs)\n  > (m)\n    oops\n",
			kind:  nota.SyntaxError,
			want:  "3:5: expected a key inside a (marker) item",
		},
		{
			name:  "duplicate key under the strict policy",
			input: "(a) 1\n(a) 2\n",
			opts:  nota.ParseOptions{DuplicateKeys: nota.DuplicateKeysError},
			kind:  nota.DuplicateKeyError,
			want:  `2:1: duplicate key "a"`,
		},
		{
			name:  "invalid utf-8",
			input: "(a) \xff\n",
			kind:  nota.SyntaxError,
			want:  "1:5: invalid UTF-8",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := nota.ParseWithOptions([]byte(test.input), test.opts)
			if err == nil {
				t.Fatalf("expected error for input %#v", test.input)
			}
			var parseErr *nota.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected a *ParseError, got %T", err)
			}
			if parseErr.Kind != test.kind {
				t.Errorf("expected kind %v, got %v", test.kind, parseErr.Kind)
			}
			if err.Error() != test.want {
				t.Errorf("expected %q, got %q", test.want, err.Error())
			}
		})
	}
}

func TestParseAtomic(t *testing.T) {
	got, err := nota.Parse([]byte("(a) 1\n(b\n"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if got != nil {
		t.Errorf("expected no partial tree, got %s", dump(got))
	}
}

func TestTabIndentationAllowed(t *testing.T) {
	input := "(a)\n\t(b) 1\n"
	got, err := nota.ParseWithOptions([]byte(input), nota.ParseOptions{TabIndentation: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dump(got) != `{"a":{"b":1}}` {
		t.Errorf("got %s", dump(got))
	}
}
