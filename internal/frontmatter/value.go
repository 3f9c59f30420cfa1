package frontmatter

import "strconv"

// Kind discriminates the variants a frontmatter field value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMapping
)

// Value is a parsed frontmatter field value. The zero value is the null
// sentinel.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	m    *Mapping
}

// Null returns the null sentinel value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value. A nil slice is a valid empty list.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// StringList returns a list value built from string items.
func StringList(items []string) Value {
	vs := make([]Value, 0, len(items))
	for _, s := range items {
		vs = append(vs, String(s))
	}
	return List(vs)
}

// Map returns a mapping value.
func Map(m *Mapping) Value { return Value{kind: KindMapping, m: m} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null sentinel.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the list payload.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMapping returns the mapping payload.
func (v Value) AsMapping() (*Mapping, bool) { return v.m, v.kind == KindMapping }

// Strings returns the string items of a list value. Non-string items are
// skipped.
func (v Value) Strings() []string {
	if v.kind != KindList {
		return nil
	}
	out := make([]string, 0, len(v.list))
	for _, item := range v.list {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Equal reports deep semantic equality between two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.m.Equal(other.m)
	}
	return false
}

// scalarLiteral renders a scalar value the way it appears on a YAML line.
// Strings are always double-quoted, even when empty.
func scalarLiteral(v Value) string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return `"` + v.s + `"`
	default:
		return "null"
	}
}

// Mapping is an insertion-ordered collection of named fields.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the field names in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Has reports whether the field exists.
func (m *Mapping) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value of the field.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the field's string payload, or "" when the field is
// absent or not a string.
func (m *Mapping) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// Set stores a field, appending it to the key order if new and updating it
// in place otherwise.
func (m *Mapping) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// EnsureMapping returns the nested mapping stored under key, replacing the
// field with a fresh empty mapping if it is absent or not a mapping.
func (m *Mapping) EnsureMapping(key string) *Mapping {
	if v, ok := m.Get(key); ok {
		if nested, ok := v.AsMapping(); ok && nested != nil {
			return nested
		}
	}
	nested := NewMapping()
	m.Set(key, Map(nested))
	return nested
}

// AppendUnique appends s to the string list stored under key, creating the
// list if absent. Items already present are left alone.
func (m *Mapping) AppendUnique(key, s string) {
	var items []Value
	if v, ok := m.Get(key); ok {
		if list, ok := v.AsList(); ok {
			items = list
		}
	}
	for _, item := range items {
		if existing, ok := item.AsString(); ok && existing == s {
			return
		}
	}
	m.Set(key, List(append(items, String(s))))
}

// Equal reports deep semantic equality between two mappings, including key
// order.
func (m *Mapping) Equal(other *Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, key := range m.Keys() {
		if other.keys[i] != key {
			return false
		}
		a, _ := m.Get(key)
		b, _ := other.Get(key)
		if !a.Equal(b) {
			return false
		}
	}
	return true
}
