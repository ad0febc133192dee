package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is a schema-less record of named scalar fields (string, float64, bool
// or nil after JSON decoding). Unlike a Go map it remembers the order in
// which fields appeared on the wire, so the first row of a result can supply
// the table's column order.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a Row from alternating name/value pairs.
// It panics if a name is not a string; intended for tests and fixtures.
func NewRow(pairs ...any) Row {
	var r Row
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

// Fields returns the field names in wire order.
func (r Row) Fields() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r.keys) }

// Get returns the value of a field and whether it was present.
// A present field may still hold nil (JSON null).
func (r Row) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set adds or replaces a field. A replaced field keeps its original position.
func (r *Row) Set(name string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// UnmarshalJSON decodes a JSON object token by token to keep field order.
// A JSON null decodes to an empty row.
func (r *Row) UnmarshalJSON(b []byte) error {
	*r = Row{}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding row: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding row: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding row: unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decoding row field %q: %w", key, err)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}

// MarshalJSON encodes the row as an object with fields in wire order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
