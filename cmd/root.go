package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmorales/opotutor/internal/logging"
	"github.com/rmorales/opotutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "opotutor",
	Short: "AI study assistant for Spanish Social Security exams",
	Long:  "OpoTutor is a terminal study assistant for opositores preparing the Administración de la Seguridad Social exams: practical cases, mock exams, tutor chat, mind maps and study material.",
	// The TUI owns the terminal, so all logging goes to the rotating
	// file. Subcommands share the same global logger.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log, err := logging.New(logging.DefaultLogPath(), os.Getenv("OPOTUTOR_LOG_LEVEL"))
		if err != nil {
			log = logging.Nop()
		}
		zap.ReplaceGlobals(log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	// .env is a convenience for local API keys; absence is not an error.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides OPOTUTOR_DB env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(mindmapCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(searchCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then OPOTUTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
