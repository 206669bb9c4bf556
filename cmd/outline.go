package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/material"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <topic>",
	Short: "Generate a study outline for a syllabus topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")
		pdfPath, _ := cmd.Flags().GetString("pdf")

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := material.NewService(provider, st.StateRepo())

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		fmt.Printf("Generando esquema de %q...\n", topic)
		text, err := svc.Outline(ctx, topic)
		if err != nil {
			return fmt.Errorf("generate outline: %w", err)
		}

		fmt.Println()
		fmt.Println(text)

		if pdfPath != "" {
			return writePDF(pdfPath, "Esquema: "+topic, text)
		}
		return nil
	},
}

// writePDF exports a generated document to path using the material
// PDF renderer.
func writePDF(path, title, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := material.ExportPDF(title, text, f); err != nil {
		return fmt.Errorf("export PDF: %w", err)
	}
	fmt.Printf("Documento exportado a %s\n", path)
	return nil
}

func init() {
	outlineCmd.Flags().String("pdf", "", "Also export the outline to the given PDF file")
}
