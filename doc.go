// Package nota implements Nota parsing and serializing.
//
// Nota is a human-readable, line-oriented data notation. Keys are written
// in parentheses, nesting is expressed with indentation, ordered lists use
// a > marker, unique sets use a >| marker, and one sentinel value, nil,
// stands for null, the empty list, and the empty map alike.
//
//	# a basic Nota document
//	(name) gopher
//	(port) 8080
//	(tags)
//	  >| stable
//	  >| fast
//	(servers)
//	  > (item)
//	    (host) a.example.com
//	  > (item)
//	    (host) b.example.com
//	(motd)
//	  two lines
//	  of text
//
// [Parse] converts a document into a tree of [Value] nodes and [Serialize]
// writes a tree back out in canonical form. Inline scalars are typed by a
// fixed precedence: the literals true and false, then integers, then
// floats, then nil, and anything else is a string. Because nil, an empty
// list and an empty map share one spelling, that distinction is lost on a
// round trip; this is the notation's one deliberate ambiguity.
//
// Like the builtin json package, nota can also convert between Go types and
// documents directly:
//
//	type Example struct {
//	  Name string   `nota:"name"`
//	  Port int      `nota:"port"`
//	  Tags []string `nota:"tags,set"`
//	}
//
//	example := Example{}
//	nota.Unmarshal(data, &example)
//
// If a type implements [encoding.TextMarshaler] and [encoding.TextUnmarshaler]
// then nota will use that to convert between a scalar and the type,
// otherwise scalars are converted using the [strconv] package.
package nota
