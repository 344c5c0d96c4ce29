// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema coerces loosely structured model output into declared
// shapes. Coercion is deliberately lenient: aliases are folded onto their
// primary field, numeric strings become numbers, bare scalars are accepted
// where quantities are expected, and unknown keys are preserved rather
// than dropped.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the target type of a declared field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStringList
	KindQuantity
	KindMapList
)

// Field declares one slot in a Shape. Aliases are checked in order after
// the primary name; the first key present in the record wins.
type Field struct {
	Name     string
	Aliases  []string
	Kind     Kind
	Required bool

	// Min/Max bound numeric fields when HasBounds is set.
	Min, Max  float64
	HasBounds bool

	// Elem declares the element shape for KindMapList fields. Nil means
	// elements pass through as-is.
	Elem *Shape
}

// Shape declares the expected structure of one record kind.
type Shape struct {
	Name   string
	Fields []Field
}

// Unbounded returns a copy of the shape with numeric bounds removed.
// Callers that must keep a record even when a value fails validation
// coerce against this copy on the retry.
func (s Shape) Unbounded() Shape {
	fields := make([]Field, len(s.Fields))
	copy(fields, s.Fields)
	for i := range fields {
		fields[i].HasBounds = false
	}
	return Shape{Name: s.Name, Fields: fields}
}

// Model is a coerced record. Fields holds the declared slots keyed by
// primary name; Extra preserves every key the record carried that no
// declaration claimed.
type Model struct {
	Fields map[string]any
	Extra  map[string]any
}

// String returns the named field as a string, or "" when absent.
func (m *Model) String(name string) string {
	s, _ := m.Fields[name].(string)
	return s
}

// StringList returns the named field as a string slice, or nil.
func (m *Model) StringList(name string) []string {
	l, _ := m.Fields[name].([]string)
	return l
}

// CoercionError reports a record that cannot be coerced into its shape.
type CoercionError struct {
	Shape  string
	Field  string
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coercing %s: field %q: %s", e.Shape, e.Field, e.Reason)
}

// Coerce fits a record into a shape. Declared fields are resolved through
// their aliases and converted to the declared kind; everything else lands
// in Extra untouched. A missing required field or an out-of-bounds value
// fails with a *CoercionError.
func Coerce(record map[string]any, shape Shape) (*Model, error) {
	claimed := make(map[string]bool, len(record))
	model := &Model{
		Fields: make(map[string]any, len(shape.Fields)),
		Extra:  map[string]any{},
	}

	for _, f := range shape.Fields {
		raw, key, ok := resolve(record, f)
		if !ok {
			if f.Required {
				return nil, &CoercionError{Shape: shape.Name, Field: f.Name, Reason: "required field missing"}
			}
			continue
		}
		claimed[key] = true

		val, err := convert(raw, f)
		if err != nil {
			return nil, &CoercionError{Shape: shape.Name, Field: f.Name, Reason: err.Error()}
		}
		if val == nil {
			continue
		}
		if f.HasBounds {
			if n, ok := toFloat(val); ok && (n < f.Min || n > f.Max) {
				return nil, &CoercionError{
					Shape:  shape.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("value %v outside [%v, %v]", val, f.Min, f.Max),
				}
			}
		}
		model.Fields[f.Name] = val
	}

	for k, v := range record {
		if !claimed[k] {
			model.Extra[k] = v
		}
	}

	return model, nil
}

// resolve finds the record key for a field: primary name first, then
// aliases in declared order.
func resolve(record map[string]any, f Field) (any, string, bool) {
	if v, ok := record[f.Name]; ok {
		return v, f.Name, true
	}
	for _, alias := range f.Aliases {
		if v, ok := record[alias]; ok {
			return v, alias, true
		}
	}
	return nil, "", false
}

// convert turns a raw value into the field's kind. A nil result with nil
// error means the value was empty and the slot stays unset.
func convert(raw any, f Field) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch f.Kind {
	case KindString:
		// Models sometimes answer a string field with a list; join it.
		if list, ok := raw.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, e := range list {
				if s := cleanString(e); s != "" {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, "; "), nil
		}
		return cleanString(raw), nil

	case KindInt:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("cannot read %T as integer", raw)
		}
		if n != float64(int(n)) {
			return nil, fmt.Errorf("value %v is not an integer", n)
		}
		return int(n), nil

	case KindFloat:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("cannot read %T as number", raw)
		}
		return n, nil

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("cannot read %q as bool", v)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("cannot read %T as bool", raw)
		}

	case KindStringList:
		switch v := raw.(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				s := cleanString(e)
				if s != "" {
					out = append(out, s)
				}
			}
			return out, nil
		case []string:
			return v, nil
		default:
			// A bare scalar becomes a one-element list.
			s := cleanString(raw)
			if s == "" {
				return nil, nil
			}
			return []string{s}, nil
		}

	case KindQuantity:
		return coerceQuantity(raw)

	case KindMapList:
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("cannot read %T as list", raw)
		}
		out := make([]map[string]any, 0, len(list))
		for i, e := range list {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not an object", i, e)
			}
			if f.Elem == nil {
				out = append(out, m)
				continue
			}
			coerced, err := Coerce(m, *f.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, coerced.Flatten())
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown kind %d", f.Kind)
}

// Flatten merges declared fields and extras back into one map, declared
// fields winning on collisions.
func (m *Model) Flatten() map[string]any {
	out := make(map[string]any, len(m.Fields)+len(m.Extra))
	for k, v := range m.Extra {
		out[k] = v
	}
	for k, v := range m.Fields {
		out[k] = v
	}
	return out
}

// coerceQuantity normalizes a measurement to a string. Accepted forms:
// a string ("30 seconds"), a bare number (30), or an object with value
// and unit keys.
func coerceQuantity(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return cleanStringValue(v), nil
	case map[string]any:
		value, hasValue := v["value"]
		unit, hasUnit := v["unit"]
		if !hasValue {
			return nil, fmt.Errorf("quantity object missing value")
		}
		s := cleanString(value)
		if hasUnit {
			if u := cleanString(unit); u != "" {
				s += " " + u
			}
		}
		return s, nil
	default:
		if n, ok := toFloat(raw); ok {
			return formatNumber(n), nil
		}
		return nil, fmt.Errorf("cannot read %T as quantity", raw)
	}
}

// cleanString renders a scalar as a trimmed, whitespace-collapsed string.
func cleanString(raw any) string {
	switch v := raw.(type) {
	case string:
		return cleanStringValue(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		if n, ok := toFloat(raw); ok {
			return formatNumber(n)
		}
		return ""
	}
}

func cleanStringValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// toFloat reads any numeric representation, including numeric strings.
// YAML decoding yields int where JSON yields float64, so both appear.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
