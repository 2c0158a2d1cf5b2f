// Package convert translates between Nota document trees and JSON or YAML.
//
// The translation is structural: the sentinel becomes null, sets become
// arrays, and mappings become objects. Two Nota features have no
// counterpart on the other side and are normalized away: set uniqueness
// (an array re-imported from JSON or YAML is an ordered list) and the
// null/empty-list/empty-map distinction, which Nota itself already
// collapses. JSON and YAML nested arrays have no Nota form and are
// rejected.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	nota "github.com/notalang/nota-go"
	"gopkg.in/yaml.v3"
)

// ToJSON renders a document tree as indented JSON.
func ToJSON(v *nota.Value) ([]byte, error) {
	return json.MarshalIndent(toAny(v), "", "  ")
}

// FromJSON builds a document tree from JSON. The root must be an object.
func FromJSON(data []byte) (*nota.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return fromRoot(doc)
}

// ToYAML renders a document tree as YAML.
func ToYAML(v *nota.Value) ([]byte, error) {
	return yaml.Marshal(toAny(v))
}

// FromYAML builds a document tree from YAML. The root must be a mapping.
func FromYAML(data []byte) (*nota.Value, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromRoot(doc)
}

func fromRoot(doc any) (*nota.Value, error) {
	v, err := fromAny(doc)
	if err != nil {
		return nil, err
	}
	if v.Kind() != nota.Map {
		return nil, fmt.Errorf("document root must be a mapping, got %v", v.Kind())
	}
	return v, nil
}

func toAny(v *nota.Value) any {
	switch v.Kind() {
	case nota.Nil:
		return nil
	case nota.Bool:
		return v.Bool()
	case nota.Int:
		return v.Int()
	case nota.Float:
		return v.Float()
	case nota.String:
		return v.Text()
	case nota.List, nota.Set:
		items := make([]any, 0, v.Len())
		for item := range v.Items() {
			items = append(items, toAny(item))
		}
		return items
	case nota.Map:
		m := make(map[string]any, v.Len())
		for key, val := range v.Entries() {
			m[key] = toAny(val)
		}
		return m
	default:
		panic("unknown Kind")
	}
}

func fromAny(doc any) (*nota.Value, error) {
	switch doc := doc.(type) {
	case nil:
		return nota.NilValue(), nil
	case bool:
		return nota.BoolValue(doc), nil
	case int:
		return nota.IntValue(int64(doc)), nil
	case int64:
		return nota.IntValue(doc), nil
	case float64:
		return nota.FloatValue(doc), nil
	case string:
		return nota.StringValue(doc), nil
	case json.Number:
		if i, err := doc.Int64(); err == nil {
			return nota.IntValue(i), nil
		}
		f, err := doc.Float64()
		if err != nil {
			return nil, err
		}
		return nota.FloatValue(f), nil
	case []any:
		items := make([]*nota.Value, 0, len(doc))
		for _, elem := range doc {
			item, err := fromAny(elem)
			if err != nil {
				return nil, err
			}
			if item.Kind() == nota.List || item.Kind() == nota.Set {
				return nil, fmt.Errorf("nested arrays are not representable; wrap the inner array in an object")
			}
			items = append(items, item)
		}
		return nota.ListValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(doc))
		for key := range doc {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		entries := make([]nota.Entry, 0, len(doc))
		for _, key := range keys {
			val, err := fromAny(doc[key])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			entries = append(entries, nota.Entry{Key: key, Value: val})
		}
		return nota.MapValue(entries...), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", doc)
	}
}
