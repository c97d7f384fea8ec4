package cmd

import (
	"fmt"

	"github.com/khrees2412/hirepipe/internal/access"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Show the dashboard sections available to a role",
	Example: `  hirepipe nav
  hirepipe nav --role admin
  hirepipe nav --role student --check /dashboard/pipeline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		roleFlag, _ := cmd.Flags().GetString("role")
		role := models.Role(roleFlag)
		if role == "" {
			user, err := currentUser(a)
			if err != nil {
				return fmt.Errorf("%w, or pass --role", err)
			}
			role = user.Role
		}
		if !role.Valid() {
			return fmt.Errorf("unknown role %q: must be student, admin or super-admin", role)
		}

		if path, _ := cmd.Flags().GetString("check"); path != "" {
			if access.Allowed(role, path) {
				cmd.Printf("✓ %s can open %s\n", role, path)
			} else {
				cmd.Printf("✗ %s cannot open %s\n", role, path)
			}
			return nil
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Navigation (%s)", role)))
		for _, e := range access.EntriesFor(role) {
			cmd.Printf("  %-24s %s\n", e.Label, mutedStyle.Render(e.Path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(navCmd)
	navCmd.Flags().String("role", "", "Role to show (defaults to the signed-in user)")
	navCmd.Flags().String("check", "", "Report whether the role may open this path")
}
