package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/hirepipe/internal/app"
	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View application status",
	Long:  "View your applications grouped by status",
	Example: `  hirepipe status
  hirepipe status --filter interview-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		if filter != application.FilterAll {
			status, err := application.ParseStatus(filter)
			if err != nil {
				return err
			}
			filter = string(status)
		}

		apps, err := a.Applications.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch applications: %w", err)
		}
		if len(apps) == 0 {
			cmd.Println("No applications yet. Apply to jobs with 'hirepipe apply <job-id>'")
			return nil
		}

		filtered := application.FilterByStatus(apps, filter)
		if len(filtered) == 0 {
			cmd.Printf("No applications with status '%s'\n", filter)
			return nil
		}

		titles := jobTitles(cmd, filtered)
		groups := make(map[models.ApplicationStatus][]models.Application)
		for _, app := range filtered {
			groups[app.Status] = append(groups[app.Status], app)
		}

		cmd.Println(titleStyle.Render("Your Applications"))
		for _, status := range application.Statuses() {
			group := groups[status]
			if len(group) == 0 {
				continue
			}
			cmd.Printf("\n%s (%d)\n", statusBadge(status), len(group))
			for _, app := range group {
				cmd.Printf("  • %s\n", titles(app.JobID))
				line := fmt.Sprintf("    %s %s | Applied: %s", labelStyle.Render("ID:"), app.ID, app.AppliedAt.Format("Jan 2, 2006"))
				if app.AIScore != nil {
					line += fmt.Sprintf(" | AI score: %.0f", *app.AIScore)
				}
				cmd.Println(line)
				if app.Feedback != "" {
					cmd.Printf("    %s %s\n", labelStyle.Render("Feedback:"), app.Feedback)
				}
			}
		}

		cmd.Printf("\n%s %d\n", labelStyle.Render("Total Applications:"), len(filtered))
		return nil
	},
}

var updateStatusCmd = &cobra.Command{
	Use:   "update <application-id>",
	Short: "Update an application's status (admins)",
	Args:  cobra.ExactArgs(1),
	Example: `  hirepipe status update 1 --status interview-2
  hirepipe status update 3 --status rejected --feedback "Not a good fit"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetString("status")
		feedback, _ := cmd.Flags().GetString("feedback")
		status, err := application.ParseStatus(raw)
		if err != nil {
			return err
		}

		if _, err := a.Applications.List(cmd.Context()); err != nil {
			return fmt.Errorf("fetch applications: %w", err)
		}
		out, err := a.Applications.UpdateStatus(cmd.Context(), args[0], status, feedback)
		if errors.Is(err, application.ErrNotFound) {
			return fmt.Errorf("no application with ID %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		noteFallback(cmd, out.Source)

		cmd.Printf("✓ Application status updated to: %s\n", statusBadge(out.Value.Status))
		if out.Value.Feedback != "" {
			cmd.Printf("  Feedback: %s\n", out.Value.Feedback)
		}
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a job",
	Args:  cobra.ExactArgs(1),
	Example: `  hirepipe apply 1
  hirepipe apply 2 --resume resume.pdf --cover-letter "I am excited to apply..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		user, err := requireRole(a, models.RoleStudent)
		if err != nil {
			return err
		}

		if _, err := a.Jobs.List(cmd.Context(), jobs.Filter{}); err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		job, err := a.Jobs.Get(args[0])
		if err != nil {
			return fmt.Errorf("%w: job %s", app.ErrNotFound, args[0])
		}

		apps, err := a.Applications.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch applications: %w", err)
		}
		for _, existing := range apps {
			if existing.JobID == job.ID {
				cmd.Printf("Already applied to this job (Status: %s)\n", statusBadge(existing.Status))
				return nil
			}
		}

		resume, _ := cmd.Flags().GetString("resume")
		cover, _ := cmd.Flags().GetString("cover-letter")
		if resume == "" && user.Profile != nil {
			resume = user.Profile.ResumeURL
		}

		out, err := a.Applications.Create(cmd.Context(), models.Application{
			JobID:       job.ID,
			StudentID:   user.ID,
			ResumeURL:   resume,
			CoverLetter: cover,
		})
		if err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		noteFallback(cmd, out.Source)
		cmd.Printf("✓ Applied to %s at %s (application %s)\n", job.Title, job.Company, out.Value.ID)
		return nil
	},
}

// jobTitles resolves job ids to "title at company" labels, falling back to the id
func jobTitles(cmd *cobra.Command, apps []models.Application) func(string) string {
	labels := map[string]string{}
	if a, err := appFrom(cmd); err == nil {
		if list, err := a.Jobs.List(cmd.Context(), jobs.Filter{}); err == nil {
			for _, job := range list {
				labels[job.ID] = job.Title + " at " + job.Company
			}
		}
	}
	return func(id string) string {
		if label, ok := labels[id]; ok {
			return label
		}
		return "Job " + strings.TrimSpace(id)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(applyCmd)
	statusCmd.AddCommand(updateStatusCmd)

	statusCmd.Flags().String("filter", application.FilterAll, "Only show applications with this status")

	updateStatusCmd.Flags().String("status", "", "New status (applied, screening, assessment, coding-challenge, interview-1, interview-2, hr-interview, final-interview, offer, accepted, rejected)")
	updateStatusCmd.Flags().String("feedback", "", "Feedback for the candidate")
	_ = updateStatusCmd.MarkFlagRequired("status")

	applyCmd.Flags().String("resume", "", "Resume URL (defaults to the one on your profile)")
	applyCmd.Flags().String("cover-letter", "", "Cover letter text")
}
