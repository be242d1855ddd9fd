package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and search statistics",
	Long: `Display catalog size, import history and aggregate search statistics.

Examples:
  studyhub stats
  studyhub stats -o json`,
	RunE: runStats,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long: `List recorded searches, newest first.

Examples:
  studyhub history
  studyhub history --source=http --since=7d
  studyhub history --limit=50 -o json`,
	RunE: runHistory,
}

var (
	historyLimit  int
	historySource string
	historySince  string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries")
	historyCmd.Flags().StringVar(&historySource, "source", "", "Only searches from this source (cli, http, mcp)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only searches within this period (e.g., 12h, 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.db.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	return output.Output(outputFmt, stats)
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts := database.SearchListOptions{Limit: historyLimit}

	if historySource != "" {
		opts.Source = &historySource
	}
	if historySince != "" {
		since, err := parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-since)
		opts.Since = &sinceTime
	}

	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.db.ListSearches(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list searches: %w", err)
	}

	return output.Output(outputFmt, entries)
}
