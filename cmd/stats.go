package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer statistics per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		windowFlag, _ := cmd.Flags().GetString("window")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		svc := progress.NewService(s.ProgressRepo())
		stats, err := svc.Stats(context.Background(), progress.Window(windowFlag))
		if err != nil {
			return err
		}

		if stats.Total == 0 {
			fmt.Println("No answers recorded in this window.")
			return nil
		}

		fmt.Printf("Answered: %d   Correct: %d   Rate: %.0f%%\n\n", stats.Total, stats.Correct, stats.Rate)

		fmt.Printf("%-50s  %6s  %8s  %6s\n", "Topic", "Total", "Correct", "Rate")
		fmt.Println(strings.Repeat("─", 76))
		for _, ts := range stats.ByTopic {
			topic := ts.Topic
			if len([]rune(topic)) > 50 {
				topic = string([]rune(topic)[:47]) + "..."
			}
			fmt.Printf("%-50s  %6d  %8d  %5.0f%%\n", topic, ts.Total, ts.Correct, ts.Rate)
		}

		fmt.Println()
		fmt.Println(progress.Motivation(stats))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("window", "w", "all", "Time window: all, 7d or 30d")
}
