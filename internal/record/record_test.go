package record

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRecord_WithIsCopyOnWrite(t *testing.T) {
	orig := New("1", map[string]Value{"name": String("KBTU")})
	updated := orig.With("name", String("KazNU"))

	if got := orig.Str("name"); got != "KBTU" {
		t.Errorf("original mutated: name = %q", got)
	}
	if got := updated.Str("name"); got != "KazNU" {
		t.Errorf("updated name = %q, want KazNU", got)
	}
	if updated.ID() != "1" {
		t.Errorf("updated ID = %q, want 1", updated.ID())
	}
}

func TestRecord_NewCopiesFields(t *testing.T) {
	fields := map[string]Value{"name": String("A")}
	r := New("1", fields)
	fields["name"] = String("B")

	if got := r.Str("name"); got != "A" {
		t.Errorf("record observed caller mutation: name = %q", got)
	}
}

func TestRecord_Text(t *testing.T) {
	r := New("1", map[string]Value{
		"name":       String("Назарбаев Университет"),
		"tags":       List("Math", "Science"),
		"popularity": Number(42),
	})

	tests := []struct {
		field string
		want  []string
	}{
		{"name", []string{"назарбаев университет"}},
		{"tags", []string{"math", "science"}},
		{"popularity", []string{"42"}},
		{"missing", nil},
		{"id", []string{"1"}},
	}

	for _, tt := range tests {
		got := r.Text(tt.field)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Text(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestRecord_Number(t *testing.T) {
	r := New("1", map[string]Value{
		"popularity": Number(50),
		"score":      String(" 120 "),
		"name":       String("abc"),
	})

	tests := []struct {
		field  string
		want   float64
		wantOK bool
	}{
		{"popularity", 50, true},
		{"score", 120, true},
		{"name", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		got, ok := r.Number(tt.field)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Number(%q) = %v, %v, want %v, %v", tt.field, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFromMap(t *testing.T) {
	r, err := FromMap(map[string]any{
		"id":         float64(7),
		"name":       "Astana IT University",
		"tags":       []any{"it", "math"},
		"popularity": 30,
	})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if r.ID() != "7" {
		t.Errorf("ID() = %q, want 7", r.ID())
	}
	if v, _ := r.Field("tags"); v.Kind() != KindList {
		t.Errorf("tags kind = %v, want list", v.Kind())
	}
	if n, ok := r.Number("popularity"); !ok || n != 30 {
		t.Errorf("popularity = %v, %v", n, ok)
	}
	if _, ok := r.Field("id"); ok {
		t.Error("id must not be stored as a field")
	}
}

func TestFromMap_RejectsUnsupported(t *testing.T) {
	_, err := FromMap(map[string]any{
		"id":    "1",
		"extra": map[string]any{"nested": true},
	})
	if err == nil {
		t.Fatal("expected error for nested object")
	}
}

func TestRecord_JSON(t *testing.T) {
	r := New("u1", map[string]Value{
		"name": String("SDU"),
		"tags": List("it"),
		"rank": Number(3),
	})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.ID() != "u1" {
		t.Errorf("ID() = %q, want u1", decoded.ID())
	}
	if got := decoded.Str("tags"); got != "it" {
		t.Errorf("tags = %q, want it", got)
	}
	if n, _ := decoded.Number("rank"); n != 3 {
		t.Errorf("rank = %v, want 3", n)
	}
}
