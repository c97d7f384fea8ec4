package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/khrees2412/hirepipe/internal/app"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Track the 8-stage hiring pipelines",
	Long: `Each application moves through Apply, Aptitude + Basic coding, Coding R1,
Coding R2, MR+TR-1, MR+TR-2, HR-1 and HR-2. Admins advance, reject or edit
stages; the current stage and overall status are derived from the stages.`,
}

var listPipelinesCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		list, err := loadPipelines(cmd, a)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cmd.Println("No pipelines yet.")
			return nil
		}

		cmd.Println(titleStyle.Render("Hiring Pipelines"))
		for _, p := range list {
			cmd.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("[%s]", p.ID)), pipelineSummary(p))
		}
		return nil
	},
}

var showPipelineCmd = &cobra.Command{
	Use:   "show <pipeline-id>",
	Short: "Show every stage of a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := loadPipelines(cmd, a); err != nil {
			return err
		}
		p, ok := a.Pipelines.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: pipeline %s", app.ErrNotFound, args[0])
		}
		renderPipeline(cmd, p)
		return nil
	},
}

var createPipelineCmd = &cobra.Command{
	Use:     "create",
	Short:   "Start a pipeline for an application",
	Example: `  hirepipe pipeline create --job-title "Backend Engineer" --company "DataFlow Solutions" --application 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		user, err := currentUser(a)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("job-title")
		company, _ := cmd.Flags().GetString("company")
		appID, _ := cmd.Flags().GetString("application")
		studentID, _ := cmd.Flags().GetString("student")
		if title == "" || company == "" {
			return fmt.Errorf("%w: --job-title and --company are required", app.ErrInvalidArgument)
		}
		if user.Role == models.RoleStudent || studentID == "" {
			studentID = user.ID
		}

		if _, err := loadPipelines(cmd, a); err != nil {
			return err
		}
		out, err := a.Pipelines.Create(cmd.Context(), models.ApplicationPipeline{
			ApplicationID: appID,
			StudentID:     studentID,
			JobTitle:      title,
			Company:       company,
		})
		if err != nil {
			return fmt.Errorf("create pipeline: %w", err)
		}
		noteFallback(cmd, out.Source)
		cmd.Printf("✓ Pipeline %s created\n", out.Value.ID)
		renderPipeline(cmd, out.Value)
		return nil
	},
}

var updateStageCmd = &cobra.Command{
	Use:   "update-stage <pipeline-id> <stage-id>",
	Short: "Change the status or feedback of one stage (admins)",
	Example: `  hirepipe pipeline update-stage 1 coding_r1 --status completed --feedback "Clean solution"
  hirepipe pipeline update-stage 2 mr_tr_2 --status current`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			return err
		}

		var patch models.StagePatch
		if cmd.Flags().Changed("status") {
			raw, _ := cmd.Flags().GetString("status")
			status := models.StageStatus(raw)
			if !status.Valid() {
				return fmt.Errorf("%w: status must be completed, current, pending or rejected", app.ErrInvalidArgument)
			}
			patch.Status = &status
		}
		if cmd.Flags().Changed("feedback") {
			feedback, _ := cmd.Flags().GetString("feedback")
			patch.Feedback = &feedback
		}
		if cmd.Flags().Changed("date") {
			raw, _ := cmd.Flags().GetString("date")
			d, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return fmt.Errorf("%w: --date must be YYYY-MM-DD", app.ErrInvalidArgument)
			}
			patch.CompletedDate = &d
		}
		if patch.Status == nil && patch.Feedback == nil && patch.CompletedDate == nil {
			return fmt.Errorf("%w: nothing to update, pass --status, --feedback or --date", app.ErrInvalidArgument)
		}

		return mutatePipeline(cmd, a, func() (gateway.Outcome[models.ApplicationPipeline], error) {
			p, ok := a.Pipelines.Get(args[0])
			if !ok {
				return gateway.Outcome[models.ApplicationPipeline]{}, fmt.Errorf("%w: %s", pipeline.ErrNotFound, args[0])
			}
			if !hasStage(p, models.StageID(args[1])) {
				return gateway.Outcome[models.ApplicationPipeline]{}, fmt.Errorf("%w: %s", pipeline.ErrUnknownStage, args[1])
			}
			return a.Pipelines.UpdateStage(cmd.Context(), args[0], models.StageID(args[1]), patch)
		})
	},
}

var advancePipelineCmd = &cobra.Command{
	Use:   "advance <pipeline-id>",
	Short: "Complete the current stage and open the next (admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			return err
		}
		feedback, _ := cmd.Flags().GetString("feedback")
		return mutatePipeline(cmd, a, func() (gateway.Outcome[models.ApplicationPipeline], error) {
			return a.Pipelines.Advance(cmd.Context(), args[0], feedback)
		})
	},
}

var rejectPipelineCmd = &cobra.Command{
	Use:   "reject <pipeline-id>",
	Short: "Reject the candidate at the current stage (admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		return mutatePipeline(cmd, a, func() (gateway.Outcome[models.ApplicationPipeline], error) {
			return a.Pipelines.Reject(cmd.Context(), args[0], reason)
		})
	},
}

var pipelineStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline statistics and stage completion rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := loadPipelines(cmd, a); err != nil {
			return err
		}
		out, err := a.Pipelines.Stats(cmd.Context())
		if err != nil {
			return err
		}
		noteFallback(cmd, out.Source)

		s := out.Value
		cmd.Println(titleStyle.Render("Pipeline Statistics"))
		cmd.Printf("  Total: %d\n", s.TotalPipelines)
		cmd.Printf("  Active: %d\n", s.ActivePipelines)
		cmd.Printf("  Completed: %d\n", s.CompletedPipelines)
		cmd.Printf("  Rejected: %d\n", s.RejectedPipelines)

		cmd.Printf("\n%s\n", labelStyle.Render("Stage Completion"))
		for _, st := range s.StageStats {
			cmd.Printf("  %-26s %5.1f%%\n", st.StageName, st.CompletionRate*100)
		}
		return nil
	},
}

var exportPipelineCmd = &cobra.Command{
	Use:   "export <pipeline-id>",
	Short: "Export a pipeline as JSON or YAML",
	Example: `  hirepipe pipeline export 1 --format yaml
  hirepipe pipeline export 4 --output pipeline-4.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := loadPipelines(cmd, a); err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		data, err := a.Pipelines.Export(args[0], format)
		if err != nil {
			return err
		}
		if output == "" {
			cmd.Println(string(data))
			return nil
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		cmd.Printf("✓ Exported pipeline %s to %s\n", args[0], output)
		return nil
	},
}

func loadPipelines(cmd *cobra.Command, a *app.App) ([]models.ApplicationPipeline, error) {
	list, err := a.Pipelines.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("fetch pipelines: %w", err)
	}
	return list, nil
}

// mutatePipeline loads the collection, runs change and renders the result
func mutatePipeline(cmd *cobra.Command, a *app.App, change func() (gateway.Outcome[models.ApplicationPipeline], error)) error {
	if _, err := loadPipelines(cmd, a); err != nil {
		return err
	}
	out, err := change()
	switch {
	case errors.Is(err, pipeline.ErrNotFound):
		return fmt.Errorf("%w: %v", app.ErrNotFound, err)
	case errors.Is(err, pipeline.ErrUnknownStage), errors.Is(err, pipeline.ErrNothingToAdvance):
		return fmt.Errorf("%w: %v", app.ErrInvalidArgument, err)
	case err != nil:
		return err
	}
	noteFallback(cmd, out.Source)
	cmd.Println("✓ Pipeline updated")
	renderPipeline(cmd, out.Value)
	return nil
}

func hasStage(p models.ApplicationPipeline, id models.StageID) bool {
	for _, st := range p.Stages {
		if st.ID == id {
			return true
		}
	}
	return false
}

func renderPipeline(cmd *cobra.Command, p models.ApplicationPipeline) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("%s at %s", p.JobTitle, p.Company)))
	cmd.Printf("%s %s\n", labelStyle.Render("Status:"), overallBadge(p.OverallStatus))
	cmd.Printf("%s %d of %d\n", labelStyle.Render("Current stage:"), p.CurrentStage, len(p.Stages))
	cmd.Printf("%s %s\n", labelStyle.Render("Application status:"), statusBadge(pipeline.DeriveApplicationStatus(p)))
	if !p.AppliedDate.IsZero() {
		printField(cmd, "Applied:", p.AppliedDate.Format("Jan 2, 2006"))
	}
	if !p.LastUpdated.IsZero() {
		printField(cmd, "Updated:", p.LastUpdated.Format("Jan 2, 2006 15:04"))
	}
	cmd.Println()
	for i, st := range p.Stages {
		printStage(cmd, i, st)
	}
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.AddCommand(listPipelinesCmd)
	pipelineCmd.AddCommand(showPipelineCmd)
	pipelineCmd.AddCommand(createPipelineCmd)
	pipelineCmd.AddCommand(updateStageCmd)
	pipelineCmd.AddCommand(advancePipelineCmd)
	pipelineCmd.AddCommand(rejectPipelineCmd)
	pipelineCmd.AddCommand(pipelineStatsCmd)
	pipelineCmd.AddCommand(exportPipelineCmd)

	createPipelineCmd.Flags().String("job-title", "", "Job title")
	createPipelineCmd.Flags().String("company", "", "Company")
	createPipelineCmd.Flags().String("application", "", "Application ID this pipeline tracks")
	createPipelineCmd.Flags().String("student", "", "Student ID (admins; defaults to you)")

	updateStageCmd.Flags().String("status", "", "completed, current, pending or rejected")
	updateStageCmd.Flags().String("feedback", "", "Stage feedback")
	updateStageCmd.Flags().String("date", "", "Completion date, YYYY-MM-DD")

	advancePipelineCmd.Flags().String("feedback", "", "Feedback for the completed stage")
	rejectPipelineCmd.Flags().String("reason", "", "Rejection reason")

	exportPipelineCmd.Flags().String("format", "json", "json or yaml")
	exportPipelineCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}
