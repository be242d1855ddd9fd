package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records",
	Long: `List catalog records in catalog order.

Examples:
  studyhub list              # List every record
  studyhub list --limit=10   # First 10 records
  studyhub list -o json      # Output as JSON`,
	RunE: runList,
}

var listLimit int

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results")
}

func runList(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.store.All()
	if len(records) == 0 {
		fmt.Println("No records. Run 'studyhub import <file>' to load a catalog.")
		return nil
	}
	if listLimit > 0 && len(records) > listLimit {
		records = records[:listLimit]
	}

	return output.Output(outputFmt, records)
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record",
	Long: `Show every field of a single catalog record.

Examples:
  studyhub show kbtu
  studyhub show kbtu -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show categories and price buckets with counts",
	RunE:  runFacets,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(facetsCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	// The database copy is authoritative; the snapshot is what searches see
	rec, err := a.db.GetRecord(ctx, args[0])
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("record not found: %s", args[0])
	}

	return output.Output(outputFmt, rec)
}

func runFacets(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return output.Output(outputFmt, a.engine.Facets())
}

// parseDuration parses durations like "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}
	if value < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use h, d, w, or m)", unit)
	}
}

