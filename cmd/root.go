package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sfassess",
	Short: "Salesforce technical assessment questionnaire",
	Long: "sfassess runs a Salesforce org assessment: answer the questionnaire, " +
		"track progress per module and export the scored report.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SFASSESS_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./sfassess.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML or JSON question catalog (default: built-in)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then db_path from config, then SFASSESS_DB and the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
