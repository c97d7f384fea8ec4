package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/hirepipe/internal/config"
	"github.com/spf13/cobra"
)

// secretKeys are printed as configured or not, never in full
var secretKeys = map[string]bool{
	"perplexity_key": true,
	"openai_key":     true,
	"jwt_secret":     true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println(titleStyle.Render("Configuration"))
		printField(cmd, "Config File:", config.GetConfigPath())
		for _, key := range config.ValidKeys {
			value := config.Get(key)
			if secretKeys[key] {
				if value != "" {
					value = "✓ Configured"
				} else {
					value = "✗ Not configured"
				}
			}
			printField(cmd, configLabel(key)+":", value)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  hirepipe config set --key api_base_url --value https://placement.example.edu/api
  hirepipe config set --key use_mock_data --value true
  hirepipe config set --key ai_provider --value openai
  hirepipe config set --key openai_key --value sk-...
  hirepipe config set --key server_db_driver --value postgres`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if !config.IsValidKey(key) {
			return fmt.Errorf("invalid key %q, must be one of: %s", key, strings.Join(config.ValidKeys, ", "))
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}
		cmd.Printf("✓ Configuration updated: %s\n", key)

		if err := config.Initialize(); err != nil {
			cmd.PrintErrf("Warning: Could not reload config: %v\n", err)
		}
		return nil
	},
}

func configLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		switch w {
		case "api", "ai", "url", "db", "dsn", "jwt":
			words[i] = strings.ToUpper(w)
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
	_ = setConfigCmd.MarkFlagRequired("key")
}
