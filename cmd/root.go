package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/config"
	"github.com/ayushhealth/ayushbot/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ayushbot",
	Short: "Symptom checker with Ayurvedic remedies",
	Long: "ayushbot asks about your symptoms one yes/no question at a time, names the likely\n" +
		"disease, and suggests Ayurvedic remedies, yoga, and diet for it.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd)
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
	rootCmd.Flags().Bool("no-ai", false, "Do not ask an LLM for insights")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(predictorCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(stubCmd)
	rootCmd.AddCommand(versionCmd)
}

// addConfigFlags registers the flags loadConfig reads.
func addConfigFlags(c *cobra.Command) {
	pf := c.PersistentFlags()
	pf.String("base-url", "", "Diagnosis service URL (overrides AYUSH_BASE_URL)")
	pf.String("db", "", "Path to SQLite database file (overrides AYUSH_DB)")
	pf.String("token", "", "Access token sent as the access_token cookie (overrides AYUSH_ACCESS_TOKEN)")
}

// loadConfig reads .env and AYUSH_* variables, then applies the persistent
// flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.AccessToken = v
	}
	return cfg, cfg.Validate()
}

// openStore opens the event log at the configured path.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
