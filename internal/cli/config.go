package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for errors",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Dir(configPath)
	dataDir := filepath.Join(home, ".local", "share", "studyhub")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file already exists at %s\n", configPath)
		fmt.Println("Use 'studyhub config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Import a catalog:   studyhub import universities.json")
	fmt.Println("  2. Search it:          studyhub search --profile law=20 алматы")
	fmt.Println("  3. Serve it over HTTP: studyhub serve")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found, using defaults. Run 'studyhub config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadOrDefault(configPath); err != nil {
		return err
	}
	fmt.Printf("%s is valid\n", configPath)
	return nil
}

const defaultConfig = `# Study Hub configuration

[database]
path = "~/.local/share/studyhub/studyhub.db"

[catalog]
# Loaded into the database on 'serve' and 'mcp' startup when set
# path = "~/.local/share/studyhub/universities.json"

[search]
fields = ["name", "city", "description", "tags"]
category_field = "category"
price_field = "price"
whole_word = false   # true: "law" no longer matches "lawn"
default_limit = 0    # 0 = unlimited

[scoring]
primary_fields = ["tags", "category"]   # full keyword weight per matching field
related_fields = ["name", "description"] # weight * related_factor
related_factor = 0.5
popularity_field = "popularity"
fallback_scale = 0.01   # used only when no record matches the profile

[buckets]
free_markers = ["грант", "бесплатно", "тегін", "free", "grant"]
free_label = "free"
unknown_label = "unknown"
default_currency = "KZT"

[buckets.scales.KZT]
thresholds = [
    { label = "low", max = 1000000 },
    { label = "medium", max = 3000000 },
]
overflow = "high"

[buckets.scales.USD]
thresholds = [
    { label = "low", max = 5000 },
    { label = "medium", max = 20000 },
]
overflow = "high"

[logging]
env = "local"   # prod, local, dev or off
level = "warn"

[http]
addr = "127.0.0.1:8420"
read_timeout_seconds = 10
write_timeout_seconds = 10
shutdown_timeout_seconds = 5

[mcp]
enabled = true
transport = "stdio"
`
