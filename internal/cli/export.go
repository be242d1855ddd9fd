package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/ingest"
	"github.com/vijay-prabhu/studyhub/internal/record"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to CSV, JSON, YAML or TOML",
	Long: `Export the stored catalog.

Supported formats:
  - csv: one row per record, one column per field (lists joined with ", ")
  - json, yaml, toml: the same shape 'studyhub import' reads

Examples:
  studyhub export --format=csv > catalog.csv
  studyhub export --format=yaml > catalog.yaml
  studyhub export --out catalog.toml`,
	RunE: runExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (csv, json, yaml, toml)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout (format taken from the extension)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.store.All()

	if exportOut != "" {
		if err := ingest.WriteFile(exportOut, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d record(s) to %s\n", len(records), exportOut)
		return nil
	}

	if exportFormat == "csv" {
		return exportCSV(os.Stdout, records)
	}
	return ingest.Encode(os.Stdout, records, ingest.Format(exportFormat))
}

// exportCSV writes one column per field name found in any record, id first
func exportCSV(w io.Writer, records []record.Record) error {
	seen := map[string]bool{"id": true}
	var fields []string
	for _, r := range records {
		for _, name := range r.FieldNames() {
			if !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
	}
	sort.Strings(fields)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"id"}, fields...)); err != nil {
		return err
	}

	for _, r := range records {
		row := make([]string, 0, len(fields)+1)
		row = append(row, r.ID())
		for _, name := range fields {
			v, ok := r.Field(name)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, v.String())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
