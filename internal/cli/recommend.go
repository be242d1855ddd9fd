package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/career"
	"github.com/vijay-prabhu/studyhub/internal/output"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [category...]",
	Short: "Recommend records from interest-test answers",
	Long: `Tally interest-test answers, build a keyword profile from the leading
career categories and rank the catalog with it.

Each answer is one of: ` + strings.Join(categoryNames(), ", ") + `

Examples:
  studyhub recommend it it science
  studyhub recommend --answer law --answer business --limit 5`,
	RunE: runRecommend,
}

var (
	recommendAnswers []string
	recommendLimit   int
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringArrayVar(&recommendAnswers, "answer", nil, "Answer category (repeatable)")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 10, "Maximum number of results (negative = all)")
}

func categoryNames() []string {
	cats := career.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return names
}

func runRecommend(cmd *cobra.Command, args []string) error {
	answers, err := career.ParseCategories(append(append([]string{}, recommendAnswers...), args...))
	if err != nil {
		return err
	}

	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.engine.Recommend(ctx, answers, recommendLimit)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}
	a.recordSearch(ctx, search.Query{Profile: rec.Profile, Limit: recommendLimit}, rec.Result)

	if outputFmt == output.FormatTable || outputFmt == "" {
		printBestMatch(NewTerminal(os.Stdout), a.engine.Scorer(), rec.Result)
	}
	return output.Output(outputFmt, rec)
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Compare your skills with what a path requires",
	Long: `Report which required skills you already have and which are missing.

Required skills come from --need, or from a career category with --for.

Examples:
  studyhub gap --for it --have python --have sql
  studyhub gap --need "public speaking" --need writing --have writing`,
	RunE: runGap,
}

var (
	gapHave []string
	gapNeed []string
	gapFor  string
)

func init() {
	rootCmd.AddCommand(gapCmd)

	gapCmd.Flags().StringArrayVar(&gapHave, "have", nil, "Skill you have (repeatable)")
	gapCmd.Flags().StringArrayVar(&gapNeed, "need", nil, "Required skill (repeatable)")
	gapCmd.Flags().StringVar(&gapFor, "for", "", "Career category whose usual skills are required")
}

func runGap(cmd *cobra.Command, args []string) error {
	need := append([]string{}, gapNeed...)
	if gapFor != "" {
		c, err := career.ParseCategory(gapFor)
		if err != nil {
			return err
		}
		need = append(need, c.Skills()...)
	}
	if len(need) == 0 {
		return fmt.Errorf("nothing to compare: pass --need or --for")
	}

	return output.Output(outputFmt, career.SkillGap(gapHave, need))
}
