package nota

import "iter"

// Kind identifies the variant held by a [Value].
type Kind int8

// The closed set of value variants. Nil is the unified sentinel standing in
// for null, an empty List, and an empty Map; the notation does not preserve
// the distinction between the three.
const (
	Nil Kind = iota
	Bool
	Int
	Float
	String
	List
	Set
	Map
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "Nil"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case List:
		return "List"
	case Set:
		return "Set"
	case Map:
		return "Map"
	default:
		panic("unknown Kind")
	}
}

func (k Kind) GoString() string {
	return k.String()
}

// Value is one node of a document tree. Values are immutable once returned
// from [Parse] or one of the constructors, and are safe to share between
// goroutines.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	items []*Value // List, Set
	keys  []string // Map
	vals  []*Value // Map
}

var nilValue = &Value{kind: Nil}

// NilValue returns the sentinel value.
func NilValue() *Value { return nilValue }

// BoolValue returns a Bool value.
func BoolValue(b bool) *Value { return &Value{kind: Bool, b: b} }

// IntValue returns an Int value.
func IntValue(i int64) *Value { return &Value{kind: Int, i: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) *Value { return &Value{kind: Float, f: f} }

// StringValue returns a String value.
func StringValue(s string) *Value { return &Value{kind: String, s: s} }

// ListValue returns a List holding items in order.
func ListValue(items ...*Value) *Value {
	v := &Value{kind: List}
	for _, item := range items {
		v.appendItem(item)
	}
	return v
}

// SetValue returns a Set holding items deduplicated by [Value.Equal],
// keeping the first occurrence. The stored order is the insertion order of
// first occurrence; it is an implementation artifact, not a guarantee of
// the notation.
func SetValue(items ...*Value) *Value {
	v := &Value{kind: Set}
	for _, item := range items {
		v.appendItem(item)
	}
	return v
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value *Value
}

// MapValue returns a Map holding entries in order. A repeated key overwrites
// the earlier value and keeps its original position.
func MapValue(entries ...Entry) *Value {
	v := &Value{kind: Map}
	for _, e := range entries {
		v.setKey(e.Key, e.Value)
	}
	return v
}

// Kind reports which variant v holds.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean content, or false if v is not a Bool.
func (v *Value) Bool() bool { return v.b }

// Int returns the integer content, or 0 if v is not an Int.
func (v *Value) Int() int64 { return v.i }

// Float returns the float content, or 0 if v is not a Float.
func (v *Value) Float() float64 { return v.f }

// Text returns the string content, or "" if v is not a String.
func (v *Value) Text() string { return v.s }

// Len returns the number of items of a List or Set, or the number of
// entries of a Map. It is 0 for every scalar.
func (v *Value) Len() int {
	if v.kind == Map {
		return len(v.keys)
	}
	return len(v.items)
}

// Items iterates over the elements of a List or Set in stored order.
func (v *Value) Items() iter.Seq[*Value] {
	return func(yield func(*Value) bool) {
		for _, item := range v.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Entries iterates over the entries of a Map in stored order.
func (v *Value) Entries() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		for i, key := range v.keys {
			if !yield(key, v.vals[i]) {
				return
			}
		}
	}
}

// Get returns the value stored under key in a Map.
func (v *Value) Get(key string) (*Value, bool) {
	for i, k := range v.keys {
		if k == key {
			return v.vals[i], true
		}
	}
	return nil, false
}

// appendItem adds an element to a List, or to a Set unless an equal element
// is already present.
func (v *Value) appendItem(item *Value) {
	if v.kind == Set {
		for _, seen := range v.items {
			if seen.Equal(item) {
				return
			}
		}
	}
	v.items = append(v.items, item)
}

// setKey stores a Map entry, overwriting in place if key is already present.
func (v *Value) setKey(key string, value *Value) {
	for i, k := range v.keys {
		if k == key {
			v.vals[i] = value
			return
		}
	}
	v.keys = append(v.keys, key)
	v.vals = append(v.vals, value)
}

// Equal reports structural equality: same variant and equal content,
// recursively. List elements must match in order; Set and Map comparison is
// order-insensitive.
func (v *Value) Equal(o *Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Nil:
		return true
	case Bool:
		return v.b == o.b
	case Int:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case String:
		return v.s == o.s
	case List:
		if len(v.items) != len(o.items) {
			return false
		}
		for i, item := range v.items {
			if !item.Equal(o.items[i]) {
				return false
			}
		}
		return true
	case Set:
		if len(v.items) != len(o.items) {
			return false
		}
		// Both sides are deduplicated, so a subset of equal size is equality.
		for _, item := range v.items {
			found := false
			for _, other := range o.items {
				if item.Equal(other) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case Map:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for i, key := range v.keys {
			ov, ok := o.Get(key)
			if !ok || !v.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	default:
		panic("unknown Kind")
	}
}
