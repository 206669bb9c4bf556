package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Answer a normative question with live web grounding",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		until, _ := cmd.Flags().GetString("until")

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := search.NewService(provider)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		fmt.Println("Buscando...")
		result, err := svc.Ask(ctx, query, until)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(result.Text)

		if sources := search.FormatSources(result); sources != "" {
			fmt.Println()
			fmt.Println("Fuentes:")
			fmt.Println(sources)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("until", "", "Pin the answer to legislation in force on this date (AAAA-MM-DD)")
}
