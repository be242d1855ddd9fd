package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the catalog with records from a file",
	Long: `Import a catalog file into the database, replacing the current catalog.

The format is chosen by extension (.json, .yaml, .yml, .toml). The file holds
either a list of records or a document with a "records" list. Every record
needs a unique "id". An invalid file leaves the current catalog untouched.

Examples:
  studyhub import universities.json
  studyhub import catalog.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.importFile(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d record(s) from %s\n", run.RecordCount, args[0])
	return nil
}
