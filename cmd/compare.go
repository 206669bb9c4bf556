package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/ingest"
	"github.com/rmorales/opotutor/internal/material"
)

var compareCmd = &cobra.Command{
	Use:   "compare [concept-a] [concept-b]",
	Short: "Compare two concepts or documents side by side",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileA, _ := cmd.Flags().GetString("file-a")
		fileB, _ := cmd.Flags().GetString("file-b")
		pdfPath, _ := cmd.Flags().GetString("pdf")

		a, labelA, err := compareInput(args, 0, fileA)
		if err != nil {
			return err
		}
		b, labelB, err := compareInput(args, 1, fileB)
		if err != nil {
			return err
		}

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := material.NewService(provider, st.StateRepo())

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		fmt.Printf("Comparando %q y %q...\n", labelA, labelB)
		text, err := svc.Compare(ctx, a, b)
		if err != nil {
			return fmt.Errorf("generate comparison: %w", err)
		}

		fmt.Println()
		fmt.Println(text)

		if pdfPath != "" {
			return writePDF(pdfPath, fmt.Sprintf("Comparativa: %s vs %s", labelA, labelB), text)
		}
		return nil
	},
}

// compareInput resolves one side of the comparison: the positional
// argument at idx, or the contents of filePath when given.
func compareInput(args []string, idx int, filePath string) (text, label string, err error) {
	if filePath != "" {
		content, err := ingest.FromFile(filePath)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", filePath, err)
		}
		return content, filepath.Base(filePath), nil
	}
	if idx < len(args) {
		return args[idx], args[idx], nil
	}
	return "", "", fmt.Errorf("provide two concepts, or --file-a/--file-b")
}

func init() {
	compareCmd.Flags().String("file-a", "", "Read the first side from a file (.pdf, .txt or .md)")
	compareCmd.Flags().String("file-b", "", "Read the second side from a file (.pdf, .txt or .md)")
	compareCmd.Flags().String("pdf", "", "Also export the comparison to the given PDF file")
}
