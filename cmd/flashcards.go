package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/flashcards"
)

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <topic>",
	Short: "Generate study flashcards for a syllabus topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")
		count, _ := cmd.Flags().GetInt("count")
		memePath, _ := cmd.Flags().GetString("meme")

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := flashcards.NewService(provider)

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		if memePath != "" {
			fmt.Printf("Generando meme de %q...\n", topic)
			img, err := svc.Meme(ctx, topic)
			if err != nil {
				return fmt.Errorf("generate meme: %w", err)
			}
			if err := os.WriteFile(memePath, img, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", memePath, err)
			}
			fmt.Printf("Meme guardado en %s\n", memePath)
			return nil
		}

		fmt.Printf("Generando %d tarjetas de %q...\n", count, topic)
		set, err := svc.Generate(ctx, topic, count)
		if err != nil {
			return fmt.Errorf("generate flashcards: %w", err)
		}

		fmt.Println()
		for i, c := range set.Cards {
			fmt.Printf("%2d. %s\n", i+1, c.Front)
			fmt.Printf("    → %s\n", c.Back)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	flashcardsCmd.Flags().IntP("count", "c", 10, "Number of flashcards to generate")
	flashcardsCmd.Flags().String("meme", "", "Generate a study meme image instead, written to the given file")
}
