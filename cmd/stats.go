package cmd

import (
	"fmt"

	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics and insights",
	Long:  "Display counts per status, response rate and average AI score of your applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		apps, err := a.Applications.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch applications: %w", err)
		}
		if len(apps) == 0 {
			cmd.Println("No applications yet. Apply to jobs with 'hirepipe apply <job-id>'")
			return nil
		}

		out, err := a.Applications.Stats(cmd.Context())
		if err != nil {
			return err
		}
		noteFallback(cmd, out.Source)
		summary := application.Summarize(apps)

		cmd.Println(titleStyle.Render("Application Statistics"))

		cmd.Printf("\n%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Total Applications: %d\n", out.Value.Total)
		cmd.Printf("  In Progress: %d\n", summary.InProgress)
		cmd.Printf("  Interviews: %d\n", summary.Interviews)
		cmd.Printf("  Offers: %d\n", summary.Offers)
		cmd.Printf("  Rejected: %d\n", summary.Rejected)

		cmd.Printf("\n%s\n", labelStyle.Render("Response Rate"))
		cmd.Printf("  Response Rate: %.1f%%\n", summary.ResponseRate)
		if summary.Scored > 0 {
			cmd.Printf("  Average AI Score: %.1f (%d scored)\n", summary.AvgAIScore, summary.Scored)
		}

		cmd.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, status := range application.Statuses() {
			count := out.Value.ByStatus[status]
			if count == 0 {
				continue
			}
			percentage := float64(count) / float64(out.Value.Total) * 100
			cmd.Printf("  %s: %d (%.1f%%)\n", statusBadge(status), count, percentage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
