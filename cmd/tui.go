package cmd

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/khrees2412/hirepipe/internal/app"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive pipeline board",
	Long:  "Browse your hiring pipelines interactively. Admins can advance or reject a pipeline from the detail view.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		user, err := currentUser(a)
		if err != nil {
			return err
		}

		var board []models.ApplicationPipeline
		a.Pipelines.Subscribe(func(snapshot []models.ApplicationPipeline) {
			board = snapshot
		})
		if board, err = loadPipelines(cmd, a); err != nil {
			return err
		}
		if len(board) == 0 {
			cmd.Println("No pipelines yet. Create one with 'hirepipe pipeline create'")
			return nil
		}
		return runTUI(cmd, a, user, &board)
	},
}

func runTUI(cmd *cobra.Command, a *app.App, user models.User, board *[]models.ApplicationPipeline) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		cmd.Println(titleStyle.Render("Pipeline Board"))
		cmd.Println("Press 'q' to quit, or enter a pipeline number to view details")
		cmd.Println()

		pipelines := *board
		for i, p := range pipelines {
			cmd.Printf("%d. %s\n", i+1, pipelineSummary(p))
		}

		cmd.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" || (err != nil && input == "") {
			return nil
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(pipelines) {
			cmd.Println("Invalid selection")
			continue
		}
		displayPipeline(cmd, a, user, pipelines[n-1].ID, reader)
	}
}

func displayPipeline(cmd *cobra.Command, a *app.App, user models.User, id string, reader *bufio.Reader) {
	canEdit := user.Role == models.RoleAdmin || user.Role == models.RoleSuperAdmin
	for {
		p, ok := a.Pipelines.Get(id)
		if !ok {
			cmd.Println("Pipeline no longer available")
			return
		}
		cmd.Println("\n" + strings.Repeat("=", 60))
		renderPipeline(cmd, p)

		cmd.Println("\nOptions:")
		if canEdit && p.OverallStatus == models.PipelineActive {
			cmd.Println("  [a] Advance to the next stage")
			cmd.Println("  [r] Reject at the current stage")
		}
		cmd.Println("  [b] Back to list")
		cmd.Print("\n> ")

		choice, err := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))
		if err != nil && choice == "" {
			return
		}

		switch {
		case choice == "b":
			return
		case choice == "a" && canEdit:
			cmd.Print("Feedback (optional): ")
			feedback, _ := reader.ReadString('\n')
			if _, err := a.Pipelines.Advance(cmd.Context(), id, strings.TrimSpace(feedback)); err != nil {
				cmd.Printf("Error: %v\n", err)
			}
		case choice == "r" && canEdit:
			cmd.Print("Reason: ")
			reason, _ := reader.ReadString('\n')
			if _, err := a.Pipelines.Reject(cmd.Context(), id, strings.TrimSpace(reason)); err != nil {
				cmd.Printf("Error: %v\n", err)
			}
		default:
			cmd.Println("Invalid choice")
		}
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
