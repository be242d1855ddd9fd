package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/output"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Filter and rank the catalog",
	Long: `Filter the catalog by free text, category and price bucket, then rank
what remains against a keyword profile.

A profile entry is "keyword=weight"; a bare keyword has weight 1. Each
keyword adds its weight once per primary field that contains it and half
of it once per related field. When no record matches any keyword the
result is ordered by popularity instead.

Examples:
  studyhub search алматы
  studyhub search --category=technical --bucket=low
  studyhub search --profile law=20 --profile medicine=5
  studyhub search --limit=-1 -o json`,
	RunE: runSearch,
}

var (
	searchCategory  string
	searchBucket    string
	searchProfile   []string
	searchLimit     int
	searchNoHistory bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCategory, "category", "all", "Category to keep")
	searchCmd.Flags().StringVar(&searchBucket, "bucket", "all", "Price bucket to keep (free, low, medium, high, unknown)")
	searchCmd.Flags().StringArrayVarP(&searchProfile, "profile", "p", nil, "Profile keyword, as keyword=weight (repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (0 = config default, negative = all)")
	searchCmd.Flags().BoolVar(&searchNoHistory, "no-history", false, "Do not record this search")
}

func runSearch(cmd *cobra.Command, args []string) error {
	profile, err := scoring.ParseProfile(searchProfile)
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q := search.Query{
		Text:     strings.Join(args, " "),
		Category: searchCategory,
		Bucket:   searchBucket,
		Profile:  profile,
		Limit:    searchLimit,
	}

	res, err := a.engine.Search(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !searchNoHistory {
		a.recordSearch(ctx, q, res)
	}

	if outputFmt == output.FormatTable || outputFmt == "" {
		printBestMatch(NewTerminal(os.Stdout), a.engine.Scorer(), res)
	}
	return output.Output(outputFmt, res)
}

// printBestMatch prints a one-line summary of the top result, colored by
// match band
func printBestMatch(t *Terminal, s *scoring.Scorer, res *search.Result) {
	if len(res.Records) == 0 {
		return
	}
	top := res.Records[0]
	name := top.Record.Str("name")
	if name == "" {
		name = top.Record.ID()
	}
	fmt.Printf("Best: %s  %s\n\n", name, t.Color(MatchColor(top), s.Explain(top)))
}
