package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/studyhub/internal/career"
	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

// Display fields used by the tables
const (
	nameField     = "name"
	cityField     = "city"
	categoryField = "category"
	priceField    = "price"
	descField     = "description"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *search.Result:
		return resultsTable(w, v)
	case *search.Recommendation:
		return recommendationTable(w, v)
	case []record.Record:
		return recordsTable(w, v)
	case record.Record:
		return recordDetail(w, v)
	case *record.Record:
		return recordDetail(w, *v)
	case search.Facets:
		return facetsTable(w, v)
	case career.Gap:
		return gapDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case []database.SearchEntry:
		return historyTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func resultsTable(w io.Writer, res *search.Result) error {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No matching records found.")
		writeWarnings(w, res)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "NAME", "CITY", "PRICE", "SCORE", "MATCH")

	for i, sr := range res.Records {
		r := sr.Record
		if err := table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.ID(),
			truncate(r.Str(nameField), 40),
			truncate(r.Str(cityField), 16),
			truncate(r.Str(priceField), 24),
			fmt.Sprintf("%.2f", sr.Score),
			fmt.Sprintf("%.0f%%", sr.MatchPercentage),
		}); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nShowing %d of %d matching (%d in catalog)\n", len(res.Records), res.Matched, res.Total)
	if res.FallbackApplied {
		fmt.Fprintln(w, "No record matched the profile; ordered by popularity.")
	}
	writeWarnings(w, res)
	return nil
}

func writeWarnings(w io.Writer, res *search.Result) {
	if len(res.Warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d record(s) placed in the unknown bucket:\n", len(res.Warnings))
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  %s: %s %q (%s)\n", warn.RecordID, warn.Field, warn.Raw, warn.Reason)
	}
}

func recommendationTable(w io.Writer, rec *search.Recommendation) error {
	if len(rec.Top) > 0 {
		fmt.Fprintln(w, "Your interests:")
		for _, cc := range rec.Top {
			fmt.Fprintf(w, "  %-12s %3.0f%%  %s\n", cc.Category, cc.Share, strings.Repeat("#", int(cc.Share/5)))
		}
		fmt.Fprintln(w)
	}
	return resultsTable(w, rec.Result)
}

func recordsTable(w io.Writer, records []record.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found. Import a catalog with 'studyhub import <file>'.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "NAME", "CATEGORY", "CITY", "PRICE")

	for _, r := range records {
		if err := table.Append([]string{
			r.ID(),
			truncate(r.Str(nameField), 40),
			truncate(r.Str(categoryField), 16),
			truncate(r.Str(cityField), 16),
			truncate(r.Str(priceField), 24),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func recordDetail(w io.Writer, r record.Record) error {
	fmt.Fprintf(w, "ID:          %s\n", r.ID())

	for _, name := range r.FieldNames() {
		if name == descField {
			continue
		}
		v, _ := r.Field(name)
		label := capitalize(name) + ":"
		fmt.Fprintf(w, "%-12s %s\n", label, v.String())
	}

	if desc := r.Str(descField); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordWrap(desc, 78))
	}

	return nil
}

func facetsTable(w io.Writer, f search.Facets) error {
	fmt.Fprintf(w, "Records: %d\n\n", f.Total)

	table := tablewriter.NewWriter(w)
	table.Header("FACET", "VALUE", "RECORDS")
	for _, c := range f.Categories {
		if err := table.Append([]string{"category", c.Value, fmt.Sprintf("%d", c.Count)}); err != nil {
			return err
		}
	}
	for _, b := range f.Buckets {
		if err := table.Append([]string{"price", b.Value, fmt.Sprintf("%d", b.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func gapDetail(w io.Writer, g career.Gap) error {
	fmt.Fprintf(w, "Coverage:    %.0f%%\n", g.Coverage)
	fmt.Fprintf(w, "Have:        %s\n", joinOrDash(g.Matched))
	fmt.Fprintf(w, "Missing:     %s\n", joinOrDash(g.Missing))
	return nil
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Study Hub Statistics")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records:            %d\n", s.Records)
	fmt.Fprintf(w, "Imports:            %d\n", s.Imports)
	if s.LastImportAt != nil {
		fmt.Fprintf(w, "Last import:        %s\n", s.LastImportAt.Format("Jan 02, 2006 15:04"))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Searches:           %d\n", s.Searches)
	fmt.Fprintf(w, "Popularity order:   %d\n", s.FallbackSearches)
	fmt.Fprintf(w, "Avg matches:        %.1f\n", s.AvgMatched)

	if len(s.TopCategories) > 0 {
		fmt.Fprintf(w, "Top categories:     %s\n", formatCounts(s.TopCategories))
	}
	if len(s.TopBuckets) > 0 {
		fmt.Fprintf(w, "Top price buckets:  %s\n", formatCounts(s.TopBuckets))
	}

	return nil
}

func historyTable(w io.Writer, entries []database.SearchEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("WHEN", "SOURCE", "QUERY", "CATEGORY", "BUCKET", "PROFILE", "RESULTS")

	for _, e := range entries {
		results := fmt.Sprintf("%d/%d", e.ResultCount, e.Matched)
		if e.FallbackApplied {
			results += " *"
		}
		if err := table.Append([]string{
			e.CreatedAt.Format("Jan 02 15:04"),
			e.Source,
			truncate(e.Text, 24),
			e.Category,
			e.Bucket,
			truncate(formatProfile(e.Profile), 30),
			results,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func formatCounts(counts []database.Count) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.Value, c.Count)
	}
	return strings.Join(parts, ", ")
}

func formatProfile(p map[string]float64) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if utf8.RuneCountInString(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if utf8.RuneCountInString(currentLine)+1+utf8.RuneCountInString(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}
