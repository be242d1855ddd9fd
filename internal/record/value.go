package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a single field value: a string, a number or an ordered list of strings.
// Enumerations are stored as strings.
type Value struct {
	kind Kind
	str  string
	num  float64
	list []string
}

// String creates a string value
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a numeric value
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// List creates a list value. The items are copied.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Kind returns the variant held by the value
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload (empty for non-string values)
func (v Value) Str() string { return v.str }

// Num returns the numeric payload (zero for non-number values)
func (v Value) Num() float64 { return v.num }

// Items returns a copy of the list payload
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp
}

// Strings returns the textual forms of the value used for matching.
// A list yields one entry per item.
func (v Value) Strings() []string {
	switch v.kind {
	case KindNumber:
		return []string{formatNumber(v.num)}
	case KindList:
		return v.Items()
	default:
		return []string{v.str}
	}
}

// String returns a display form of the value
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return v.str
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FromAny converts a decoded JSON, YAML or TOML scalar or string list into a Value
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case string:
		return String(t), nil
	case bool:
		return String(strconv.FormatBool(t)), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case []string:
		return List(t...), nil
	case []any:
		items := make([]string, 0, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("list item %d: %w", i, err)
			}
			if v.kind == KindList {
				return Value{}, fmt.Errorf("list item %d: nested lists are not supported", i)
			}
			items = append(items, v.String())
		}
		return List(items...), nil
	case nil:
		return Value{}, fmt.Errorf("null value")
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// Any returns the value as a plain Go value: string, float64 or []string
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindList:
		return v.Items()
	default:
		return v.str
	}
}

// MarshalJSON encodes the value as its natural JSON type
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON decodes a string, number or string array
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
