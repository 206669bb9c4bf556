package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete answer history and saved session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This deletes all answer history and saved sessions. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.ProgressRepo().Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		state := s.StateRepo()
		for _, key := range []string{
			store.KeyChatConversations,
			store.KeyPracticalCase,
			store.KeyCaseAnswers,
			store.KeyMindMap,
			store.KeyOutline,
			store.KeySummary,
			store.KeyComparator,
			store.KeyStudyPlan,
		} {
			state.Delete(ctx, key)
		}

		fmt.Println("All data cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
