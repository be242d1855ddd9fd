package filter

import (
	"testing"

	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/record"
)

func universities() []record.Record {
	return []record.Record{
		record.New("kbtu", map[string]record.Value{
			"name":     record.String("Казахстанско-Британский технический университет"),
			"location": record.String("Алматы"),
			"category": record.String("technical"),
			"tags":     record.List("IT", "Engineering"),
			"price":    record.String("~2 200 000 ₸/год"),
		}),
		record.New("kaznu", map[string]record.Value{
			"name":     record.String("КазНУ им. аль-Фараби"),
			"location": record.String("Алматы"),
			"category": record.String("classical"),
			"tags":     record.List("Law", "Medicine"),
			"price":    record.String("Грант (полное покрытие)"),
		}),
		record.New("nu", map[string]record.Value{
			"name":     record.String("Nazarbayev University"),
			"location": record.String("Astana"),
			"category": record.String("Research"),
			"tags":     record.List("Science"),
			"price":    record.String("по запросу"),
		}),
	}
}

func testBucketer() *price.Bucketer {
	return &price.Bucketer{
		FreeMarkers:     []string{"Грант"},
		DefaultCurrency: price.KZT,
		Scales: map[price.Currency]price.Scale{
			price.KZT: {
				Thresholds: []price.Threshold{{Label: "low", Max: 10000}, {Label: "medium", Max: 30000}},
				Overflow:   "high",
			},
		},
	}
}

var searchFields = []string{"name", "location", "tags"}

func TestMatchesText(t *testing.T) {
	recs := universities()

	tests := []struct {
		name  string
		query string
		want  []bool
	}{
		{"empty query is neutral", "", []bool{true, true, true}},
		{"whitespace query is neutral", "   ", []bool{true, true, true}},
		{"city match case-insensitive", "алматы", []bool{true, true, false}},
		{"tag match", "SCIENCE", []bool{false, false, true}},
		{"substring of name", "univers", []bool{false, false, true}},
		{"no match", "oxford", []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, r := range recs {
				if got := MatchesText(r, tt.query, searchFields); got != tt.want[i] {
					t.Errorf("MatchesText(%s, %q) = %v, want %v", r.ID(), tt.query, got, tt.want[i])
				}
			}
		})
	}
}

func TestText_WholeWord(t *testing.T) {
	r := record.New("x", map[string]record.Value{"tags": record.List("lawn care")})

	if MatchesText(r, "law", []string{"tags"}) != true {
		t.Error("substring match should find law in lawn")
	}
	if (Text{Query: "law", Fields: []string{"tags"}, WholeWord: true}).Match(r) {
		t.Error("whole-word match should not find law in lawn")
	}
}

func TestMatchesCategory(t *testing.T) {
	recs := universities()

	tests := []struct {
		selected string
		want     []bool
	}{
		{"all", []bool{true, true, true}},
		{"ALL", []bool{true, true, true}},
		{"", []bool{true, true, true}},
		{"technical", []bool{true, false, false}},
		{"research", []bool{false, false, true}},
		{"arts", []bool{false, false, false}},
	}

	for _, tt := range tests {
		for i, r := range recs {
			if got := MatchesCategory(r, "category", tt.selected); got != tt.want[i] {
				t.Errorf("MatchesCategory(%s, %q) = %v, want %v", r.ID(), tt.selected, got, tt.want[i])
			}
		}
	}
}

func TestMatchesBucket(t *testing.T) {
	recs := universities()
	fn := FieldBucketFunc(testBucketer(), "price")

	tests := []struct {
		selected string
		want     []bool
	}{
		{"all", []bool{true, true, true}},
		{"high", []bool{true, false, false}},
		{"free", []bool{false, true, false}},
		{"unknown", []bool{false, false, true}},
		{"low", []bool{false, false, false}},
	}

	for _, tt := range tests {
		for i, r := range recs {
			if got := MatchesBucket(r, tt.selected, fn); got != tt.want[i] {
				t.Errorf("MatchesBucket(%s, %q) = %v, want %v", r.ID(), tt.selected, got, tt.want[i])
			}
		}
	}
}

func TestFieldBucketFunc_FillsWarning(t *testing.T) {
	fn := FieldBucketFunc(testBucketer(), "price")
	label, w := fn(universities()[2])

	if label != "unknown" {
		t.Errorf("label = %q, want unknown", label)
	}
	if w == nil {
		t.Fatal("expected warning")
	}
	if w.RecordID != "nu" || w.Field != "price" {
		t.Errorf("warning = %+v", w)
	}
}

type countingPredicate struct {
	result bool
	calls  *int
}

func (c countingPredicate) Name() string { return "counting" }

func (c countingPredicate) Match(record.Record) bool {
	*c.calls++
	return c.result
}

func TestEvaluateAll(t *testing.T) {
	r := universities()[0]

	if !EvaluateAll(r, nil) {
		t.Error("empty filter set must accept every record")
	}

	calls := 0
	preds := []Predicate{
		countingPredicate{result: false, calls: &calls},
		countingPredicate{result: true, calls: &calls},
	}
	if EvaluateAll(r, preds) {
		t.Error("expected false")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (short-circuit)", calls)
	}
}

func TestEvaluateAll_IsConjunction(t *testing.T) {
	recs := universities()
	text := Text{Query: "алматы", Fields: searchFields}
	cat := Category{Field: "category", Selected: "technical"}

	for _, r := range recs {
		want := text.Match(r) && cat.Match(r)
		got := EvaluateAll(r, []Predicate{text, cat})
		if got != want {
			t.Errorf("EvaluateAll(%s) = %v, want %v", r.ID(), got, want)
		}
		if again := EvaluateAll(r, []Predicate{text, cat}); again != got {
			t.Errorf("EvaluateAll(%s) not idempotent", r.ID())
		}
	}
}

func TestPipeline_Apply(t *testing.T) {
	p := NewPipeline(
		Text{Query: "", Fields: searchFields},
		Category{Field: "category", Selected: All},
		Bucket{Selected: "unknown", Classify: FieldBucketFunc(testBucketer(), "price")},
		nil,
	)

	if got := len(p.Predicates()); got != 3 {
		t.Fatalf("len(Predicates()) = %d, want 3", got)
	}

	res := p.Apply(universities())

	if res.Stats.Total != 3 || res.Stats.Included != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Stats.RejectedBy["bucket"] != 2 {
		t.Errorf("RejectedBy[bucket] = %d, want 2", res.Stats.RejectedBy["bucket"])
	}
	if len(res.Included) != 1 || res.Included[0].ID() != "nu" {
		t.Errorf("Included = %v", res.Included)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].RecordID != "nu" {
		t.Errorf("Warnings = %+v", res.Warnings)
	}
}

func TestPipeline_ApplyPreservesOrder(t *testing.T) {
	res := NewPipeline().Apply(universities())
	want := []string{"kbtu", "kaznu", "nu"}
	for i, r := range res.Included {
		if r.ID() != want[i] {
			t.Errorf("Included[%d] = %s, want %s", i, r.ID(), want[i])
		}
	}
	if res.Stats.RejectedBy != nil {
		t.Errorf("RejectedBy = %v, want nil", res.Stats.RejectedBy)
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text     string
		word     string
		expected bool
	}{
		{"this is a position", "position", true},
		{"preposition is not position", "position", true},
		{"hello world", "position", false},
		{"медицина и право", "право", true},
		{"правовед", "право", false},
		{"data science track", "data science", true},
	}

	for _, tt := range tests {
		result := containsWord(tt.text, tt.word)
		if result != tt.expected {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tt.text, tt.word, result, tt.expected)
		}
	}
}
