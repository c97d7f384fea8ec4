package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

// categoryColors are the terminal colors of the status display buckets
var categoryColors = map[application.Category]lipgloss.Color{
	application.CategoryInfo:      lipgloss.Color("12"),
	application.CategoryWarning:   lipgloss.Color("11"),
	application.CategoryProgress:  lipgloss.Color("13"),
	application.CategoryInterview: lipgloss.Color("14"),
	application.CategorySuccess:   lipgloss.Color("10"),
	application.CategoryNeutral:   lipgloss.Color("8"),
}

func statusBadge(status models.ApplicationStatus) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(categoryColors[application.StatusColor(status)]).
		Render(application.Label(status))
}

var stageMarkers = map[models.StageStatus]struct {
	symbol string
	color  lipgloss.Color
}{
	models.StageCompleted: {"✓", "10"},
	models.StageCurrent:   {"●", "11"},
	models.StagePending:   {"○", "8"},
	models.StageRejected:  {"✗", "9"},
}

func stageMarker(status models.StageStatus) string {
	m, ok := stageMarkers[status]
	if !ok {
		return "?"
	}
	return lipgloss.NewStyle().Foreground(m.color).Render(m.symbol)
}

func overallBadge(status models.OverallStatus) string {
	color := lipgloss.Color("11")
	switch status {
	case models.PipelineCompleted:
		color = "10"
	case models.PipelineRejected:
		color = "9"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(strings.ToUpper(string(status)))
}

// progressBar renders one marker per stage
func progressBar(p models.ApplicationPipeline) string {
	markers := make([]string, len(p.Stages))
	for i, st := range p.Stages {
		markers[i] = stageMarker(st.Status)
	}
	return strings.Join(markers, " ")
}

// pipelineSummary is the one-line header of a pipeline
func pipelineSummary(p models.ApplicationPipeline) string {
	stage := "-"
	if idx := p.CurrentStage - 1; idx >= 0 && idx < len(p.Stages) {
		stage = p.Stages[idx].Name
	} else if p.OverallStatus == models.PipelineCompleted {
		stage = "Done"
	}
	return fmt.Sprintf("%s at %s  %s  %s %s",
		p.JobTitle, p.Company, progressBar(p), overallBadge(p.OverallStatus), mutedStyle.Render("("+stage+")"))
}

// noteFallback tells the user the data shown is local
func noteFallback(cmd *cobra.Command, src gateway.Source) {
	if src == gateway.SourceFallback {
		cmd.Println(mutedStyle.Render("API unavailable, showing local data"))
	}
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func printStage(cmd *cobra.Command, i int, st models.PipelineStage) {
	line := fmt.Sprintf("  %s %d. %s", stageMarker(st.Status), i+1, st.Name)
	if st.CompletedDate != nil {
		line += mutedStyle.Render("  " + st.CompletedDate.Format("Jan 2, 2006"))
	}
	cmd.Println(line)
	if st.Feedback != "" {
		cmd.Printf("       %s\n", valueStyle.Render(st.Feedback))
	}
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		user, err := currentUser(a)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render(user.Name))
		printField(cmd, "Email:", user.Email)
		printField(cmd, "Role:", string(user.Role))
		printField(cmd, "ID:", user.ID)
		if user.LastLogin != nil {
			printField(cmd, "Last login:", user.LastLogin.Format("Jan 2, 2006 15:04"))
		}

		if p := user.Profile; p != nil {
			printField(cmd, "Phone:", p.Phone)
			printField(cmd, "Skills:", strings.Join(p.Skills, ", "))
			printField(cmd, "Experience:", p.Experience)
			printField(cmd, "Education:", p.Education)
			printField(cmd, "Resume:", p.ResumeURL)
			printField(cmd, "Company:", p.Company)
			printField(cmd, "Job title:", p.JobTitle)
			printField(cmd, "Department:", p.Department)
			if p.TwoFactorEnabled {
				printField(cmd, "Two-factor:", "enabled")
			}
		}

		if user.Role == models.RoleStudent {
			cmd.Println(mutedStyle.Render(fmt.Sprintf("\n%d hiring stages tracked per application; see 'hirepipe pipeline list'", pipeline.StageCount)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
