package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/hirepipe/internal/app"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

// appInstance is closed by Execute once the command returns
var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "hirepipe",
	Short: "Recruitment pipeline client for students, admins and super-admins",
	Long: `hirepipe talks to the recruitment platform API: browse and apply to jobs,
track applications and 8-stage hiring pipelines, and practice with the AI coach.
When the API cannot be reached every command falls back to built-in demo data.`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		appInstance = application
		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	if appInstance != nil {
		appInstance.Close()
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}

// currentUser returns the signed-in user or ErrUnauthorized
func currentUser(a *app.App) (models.User, error) {
	user, ok := a.Auth.Session().User()
	if !ok {
		return models.User{}, fmt.Errorf("%w: run 'hirepipe login' first", app.ErrUnauthorized)
	}
	return user, nil
}

// requireRole fails unless the signed-in user has one of roles
func requireRole(a *app.App, roles ...models.Role) (models.User, error) {
	user, err := currentUser(a)
	if err != nil {
		return user, err
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	return user, fmt.Errorf("%w (%s)", app.ErrForbidden, user.Role)
}
