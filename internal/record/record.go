// Package record holds the immutable catalog entities (universities,
// internships, professions) and the store that publishes them.
package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// IDField is the reserved field name carrying the record identifier
const IDField = "id"

// Record is an immutable catalog entry. Updates go through With, which
// returns a new Record and leaves the receiver untouched.
type Record struct {
	id     string
	fields map[string]Value
	seq    int
}

// New creates a record. The field map is copied; an "id" entry in fields is ignored.
func New(id string, fields map[string]Value) Record {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		if k == IDField {
			continue
		}
		cp[k] = v
	}
	return Record{id: id, fields: cp}
}

// FromMap builds a record from a decoded document. The "id" key becomes the identifier.
func FromMap(m map[string]any) (Record, error) {
	var id string
	fields := make(map[string]Value, len(m))

	for k, raw := range m {
		if k == IDField {
			switch t := raw.(type) {
			case string:
				id = t
			case nil:
			default:
				v, err := FromAny(t)
				if err != nil {
					return Record{}, fmt.Errorf("field %q: %w", k, err)
				}
				id = v.String()
			}
			continue
		}

		v, err := FromAny(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = v
	}

	return Record{id: id, fields: fields}, nil
}

// ID returns the record identifier
func (r Record) ID() string { return r.id }

// Seq returns the insertion position assigned by the store (0 if never loaded)
func (r Record) Seq() int { return r.seq }

// Field returns the named field
func (r Record) Field(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Fields returns a copy of all fields
func (r Record) Fields() map[string]Value {
	cp := make(map[string]Value, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

// FieldNames returns the field names in sorted order
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of the record with the field set to v
func (r Record) With(name string, v Value) Record {
	cp := r.Fields()
	cp[name] = v
	return Record{id: r.id, fields: cp, seq: r.seq}
}

// Str returns the display form of a field, or "" when absent
func (r Record) Str(name string) string {
	if name == IDField {
		return r.id
	}
	v, ok := r.fields[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Text returns the lowercased textual forms of a field for matching
func (r Record) Text(name string) []string {
	if name == IDField {
		return []string{strings.ToLower(r.id)}
	}
	v, ok := r.fields[name]
	if !ok {
		return nil
	}
	out := v.Strings()
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}

// Number returns the numeric value of a field. Numeric strings are accepted.
func (r Record) Number(name string) (float64, bool) {
	v, ok := r.fields[name]
	if !ok {
		return 0, false
	}
	switch v.Kind() {
	case KindNumber:
		return v.Num(), true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (r Record) withSeq(seq int) Record {
	r.seq = seq
	return r
}

// ToMap returns the record as a flat document with an "id" key, the
// inverse of FromMap
func (r Record) ToMap() map[string]any {
	m := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		m[k] = v.Any()
	}
	m[IDField] = r.id
	return m
}

// MarshalJSON encodes the record as a flat object with an "id" key
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		m[k] = v
	}
	m[IDField] = r.id
	return json.Marshal(m)
}

// UnmarshalJSON decodes a flat object with an "id" key
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
