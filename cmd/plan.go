package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/material"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a personalized study plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetInt("hours")
		duration, _ := cmd.Flags().GetString("duration")
		tracking, _ := cmd.Flags().GetBool("tracking")
		suggestions, _ := cmd.Flags().GetBool("suggestions")
		pdfPath, _ := cmd.Flags().GetString("pdf")

		if hours <= 0 {
			return fmt.Errorf("--hours must be positive")
		}

		var d material.Duration
		switch duration {
		case "semanal":
			d = material.DurationWeekly
		case "mensual":
			d = material.DurationMonthly
		case "trimestral":
			d = material.DurationQuarterly
		default:
			return fmt.Errorf("invalid --duration %q (semanal, mensual or trimestral)", duration)
		}

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := material.NewService(provider, st.StateRepo())

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		fmt.Println("Generando plan de estudio...")
		text, err := svc.StudyPlan(ctx, material.PlanInput{
			AvailabilityHours:  hours,
			Duration:           d,
			IncludeTracking:    tracking,
			IncludeSuggestions: suggestions,
		})
		if err != nil {
			return fmt.Errorf("generate study plan: %w", err)
		}

		fmt.Println()
		fmt.Println(text)

		if pdfPath != "" {
			return writePDF(pdfPath, "Plan de estudio", text)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Int("hours", 10, "Weekly study hours available")
	planCmd.Flags().String("duration", "semanal", "Plan horizon: semanal, mensual or trimestral")
	planCmd.Flags().Bool("tracking", false, "Include a progress-tracking checklist")
	planCmd.Flags().Bool("suggestions", false, "Include AI study suggestions per week")
	planCmd.Flags().String("pdf", "", "Also export the plan to the given PDF file")
}
