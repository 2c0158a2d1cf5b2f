package nota

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Marshal converts a Go value to a document. The top level must marshal to
// a mapping, so v should be a struct, a map, or a pointer to one.
//
// Struct fields are named by a `nota:"name"` tag, then a `json:"name"` tag,
// then the field name. The tag options are `omitempty`, which skips zero
// values, and `set`, which emits a slice as a unique set rather than an
// ordered list. Types implementing [encoding.TextMarshaler] are emitted as
// strings; []byte is emitted as unpadded base64.
func Marshal(v any) ([]byte, error) {
	value, err := marshalValue(v, false)
	if err != nil {
		return nil, err
	}
	if value.Kind() != Map {
		return nil, fmt.Errorf("cannot marshal %T as a document root, need a map or struct", v)
	}
	return Serialize(value), nil
}

func marshalValue(v any, set bool) (*Value, error) {
	if v == nil {
		return nilValue, nil
	}
	if m, ok := v.(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return nil, err
		}
		return StringValue(string(text)), nil
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nilValue, nil
		}
		return marshalValue(val.Elem().Interface(), set)
	case reflect.Bool:
		return BoolValue(val.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows the notation's integer range", u)
		}
		return IntValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(val.Float()), nil
	case reflect.String:
		return StringValue(val.String()), nil
	case reflect.Slice, reflect.Array:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return StringValue(base64.RawStdEncoding.EncodeToString(val.Bytes())), nil
		}
		items := make([]*Value, 0, val.Len())
		for i := range val.Len() {
			item, err := marshalValue(val.Index(i).Interface(), false)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if set {
			return SetValue(items...), nil
		}
		return ListValue(items...), nil
	case reflect.Map:
		return marshalMap(val)
	case reflect.Struct:
		return marshalStruct(val)
	default:
		return nil, fmt.Errorf("unsupported type: %s", val.Type())
	}
}

func marshalMap(val reflect.Value) (*Value, error) {
	entries := make([]Entry, 0, val.Len())
	for _, key := range val.MapKeys() {
		k, err := marshalKey(key.Interface())
		if err != nil {
			return nil, err
		}
		v, err := marshalValue(val.MapIndex(key).Interface(), false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return MapValue(entries...), nil
}

func marshalKey(v any) (string, error) {
	if m, ok := v.(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !val.IsNil() {
			return marshalKey(val.Elem().Interface())
		}
	case reflect.String:
		return val.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("unsupported map key type: %s", reflect.TypeOf(v))
}

func marshalStruct(val reflect.Value) (*Value, error) {
	entries := []Entry{}
	for i := range val.Type().NumField() {
		field := val.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("nota")
		if !ok {
			tag, _ = field.Tag.Lookup("json")
		}
		if tag == "-" {
			continue
		}
		name, options, found := strings.Cut(tag, ",")
		if !found {
			name = tag
		}
		if name == "" {
			name = field.Name
		}
		fv := val.Field(i)
		if strings.Contains(options, "omitempty") && fv.IsZero() {
			continue
		}
		v, err := marshalValue(fv.Interface(), strings.Contains(options, "set"))
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: name, Value: v})
	}
	return MapValue(entries...), nil
}

// Unmarshal parses a document and stores the result in the value pointed to
// by v, which must be a non-nil pointer to a struct, map, or interface.
// Unmarshal acts similarly to json.Unmarshal.
//
// Field names resolve through a `nota:"name"` tag, then a `json:"name"`
// tag, and finally the field name or its snake_case form. Unmarshalling
// into an interface produces map[string]any, []any, and the scalar Go
// types; the sentinel produces nil. Types implementing
// [encoding.TextUnmarshaler] are given the scalar's text.
func Unmarshal(data []byte, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return fmt.Errorf("invalid target, must be a non-nil pointer")
	}
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return unmarshalValue(doc, value.Elem())
}

func unmarshalValue(tree *Value, v reflect.Value) error {
	if !v.CanSet() {
		panic(fmt.Errorf("cannot set value of type: %v", v.Type()))
	}

	if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		if tree.Kind() == Nil {
			return nil
		}
		text, err := scalarText(tree)
		if err != nil {
			return err
		}
		return tu.UnmarshalText([]byte(text))
	}

	if tree.Kind() == Nil {
		v.SetZero()
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return unmarshalValue(tree, v.Elem())
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("cannot unmarshal into non-empty interface %s", v.Type())
		}
		v.Set(reflect.ValueOf(treeToAny(tree)))
		return nil
	case reflect.Struct:
		return unmarshalStruct(tree, v)
	case reflect.Map:
		return unmarshalMap(tree, v)
	case reflect.Slice:
		return unmarshalSlice(tree, v)
	case reflect.Array:
		return unmarshalArray(tree, v)
	default:
		text, err := scalarText(tree)
		if err != nil {
			return err
		}
		return setBasicValue(text, v)
	}
}

// scalarText renders a scalar tree node as text, for TextUnmarshalers and
// for basic targets that parse with strconv.
func scalarText(tree *Value) (string, error) {
	switch tree.Kind() {
	case String:
		return tree.Text(), nil
	case Bool:
		return strconv.FormatBool(tree.Bool()), nil
	case Int:
		return strconv.FormatInt(tree.Int(), 10), nil
	case Float:
		return strconv.FormatFloat(tree.Float(), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar, got a %v", tree.Kind())
	}
}

func treeToAny(tree *Value) any {
	switch tree.Kind() {
	case Nil:
		return nil
	case Bool:
		return tree.Bool()
	case Int:
		return tree.Int()
	case Float:
		return tree.Float()
	case String:
		return tree.Text()
	case List, Set:
		items := make([]any, 0, tree.Len())
		for item := range tree.Items() {
			items = append(items, treeToAny(item))
		}
		return items
	case Map:
		m := make(map[string]any, tree.Len())
		for key, val := range tree.Entries() {
			m[key] = treeToAny(val)
		}
		return m
	default:
		panic("unknown Kind")
	}
}

func unmarshalStruct(tree *Value, v reflect.Value) error {
	if tree.Kind() != Map {
		return fmt.Errorf("expected a map for %s, got a %v", v.Type(), tree.Kind())
	}
	t := v.Type()
	fieldMap := make(map[string]reflect.Value)
	for i := range t.NumField() {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		if tag, ok := fieldType.Tag.Lookup("nota"); ok {
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			fieldMap[name] = field
			continue
		}
		if tag, ok := fieldType.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			fieldMap[name] = field
			continue
		}
		fieldMap[fieldType.Name] = field
		fieldMap[toSnakeCase(fieldType.Name)] = field
	}

	for key, val := range tree.Entries() {
		field, ok := fieldMap[key]
		if !ok {
			return fmt.Errorf("unknown field %s", key)
		}
		if err := unmarshalValue(val, field); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func unmarshalMap(tree *Value, v reflect.Value) error {
	if tree.Kind() != Map {
		return fmt.Errorf("expected a map for %s, got a %v", v.Type(), tree.Kind())
	}
	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(v.Type(), tree.Len()))
	}
	keyType := v.Type().Key()
	valueType := v.Type().Elem()
	for key, val := range tree.Entries() {
		k := reflect.New(keyType).Elem()
		if err := setBasicValue(key, k); err != nil {
			return fmt.Errorf("invalid key %q: %w", key, err)
		}
		value := reflect.New(valueType).Elem()
		if err := unmarshalValue(val, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		v.SetMapIndex(k, value)
	}
	return nil
}

func unmarshalSlice(tree *Value, v reflect.Value) error {
	if v.Type().Elem().Kind() == reflect.Uint8 {
		if tree.Kind() != String {
			return fmt.Errorf("expected a base64 string, got a %v", tree.Kind())
		}
		output, err := base64.RawStdEncoding.DecodeString(tree.Text())
		if err != nil {
			return err
		}
		v.SetBytes(output)
		return nil
	}
	if tree.Kind() != List && tree.Kind() != Set {
		return fmt.Errorf("expected a list for %s, got a %v", v.Type(), tree.Kind())
	}
	elemType := v.Type().Elem()
	for item := range tree.Items() {
		elem := reflect.New(elemType).Elem()
		if err := unmarshalValue(item, elem); err != nil {
			return err
		}
		v.Set(reflect.Append(v, elem))
	}
	return nil
}

func unmarshalArray(tree *Value, v reflect.Value) error {
	if tree.Kind() != List && tree.Kind() != Set {
		return fmt.Errorf("expected a list for %s, got a %v", v.Type(), tree.Kind())
	}
	if tree.Len() > v.Len() {
		return fmt.Errorf("too many elements, limit %d", v.Len())
	}
	elemType := v.Type().Elem()
	i := 0
	for item := range tree.Items() {
		elem := reflect.New(elemType).Elem()
		if err := unmarshalValue(item, elem); err != nil {
			return err
		}
		v.Index(i).Set(elem)
		i++
	}
	return nil
}

func setBasicValue(s string, v reflect.Value) error {
	if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		if v.OverflowInt(i) {
			return fmt.Errorf("invalid %s: %v", v.Type(), i)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		if v.OverflowUint(u) {
			return fmt.Errorf("invalid %s: %v", v.Type(), u)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		if v.OverflowFloat(f) {
			return fmt.Errorf("invalid %s: %v", v.Type(), f)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", v.Type())
	}
	return nil
}
