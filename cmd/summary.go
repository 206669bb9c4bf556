package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/ingest"
	"github.com/rmorales/opotutor/internal/material"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [text]",
	Short: "Summarize study material from text, a file or a URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		rawURL, _ := cmd.Flags().GetString("url")
		pdfPath, _ := cmd.Flags().GetString("pdf")

		var source string
		switch {
		case filePath != "":
			text, err := ingest.FromFile(filePath)
			if err != nil {
				return fmt.Errorf("read %s: %w", filePath, err)
			}
			source = text
		case rawURL != "":
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			text, err := ingest.FromURL(ctx, rawURL)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", rawURL, err)
			}
			source = text
		case len(args) > 0:
			source = ingest.Truncate(strings.Join(args, " "))
		default:
			return fmt.Errorf("provide text, --file or --url")
		}

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := material.NewService(provider, st.StateRepo())

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		fmt.Println("Generando resumen...")
		text, err := svc.Summary(ctx, source)
		if err != nil {
			return fmt.Errorf("generate summary: %w", err)
		}

		fmt.Println()
		fmt.Println(text)

		if pdfPath != "" {
			return writePDF(pdfPath, "Resumen", text)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().String("file", "", "Summarize a local file (.pdf, .txt or .md)")
	summaryCmd.Flags().String("url", "", "Summarize the text content of a web page")
	summaryCmd.Flags().String("pdf", "", "Also export the summary to the given PDF file")
}
