package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/syllabus"
)

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "List the syllabus topics available for cases, exams and materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Temario de la Seguridad Social:")
		for i, t := range syllabus.Topics {
			fmt.Printf("  %2d. %s\n", i+1, t)
		}
		return nil
	},
}
