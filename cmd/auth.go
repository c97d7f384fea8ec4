package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/khrees2412/hirepipe/internal/auth"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the platform",
	Example: `  hirepipe login --email student@example.com --password password
  hirepipe login --email admin@company.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return errors.New("--email is required")
		}
		if password == "" {
			password = prompt("Password: ")
		}

		user, err := a.Auth.Login(cmd.Context(), email, password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errors.New("invalid email or password")
		}
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		cmd.Printf("✓ Signed in as %s (%s)\n", user.Name, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Auth.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		cmd.Println("✓ Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a student, admin or super-admin account",
}

var registerStudentCmd = &cobra.Command{
	Use:     "student",
	Short:   "Register as a student",
	Example: `  hirepipe register student --email jo@uni.edu --name "Jo Park" --password secret1 --skills Go,SQL`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		email, _ := f.GetString("email")
		name, _ := f.GetString("name")
		phone, _ := f.GetString("phone")
		skills, _ := f.GetStringSlice("skills")
		experience, _ := f.GetString("experience")
		education, _ := f.GetString("education")
		resume, _ := f.GetString("resume")
		password, confirm := passwords(cmd)

		user, err := a.Auth.RegisterStudent(cmd.Context(), models.StudentRegistration{
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
			Name:            name,
			Phone:           phone,
			Skills:          skills,
			Experience:      experience,
			Education:       education,
			ResumeURL:       resume,
		})
		return registered(cmd, user, err)
	},
}

var registerAdminCmd = &cobra.Command{
	Use:     "admin",
	Short:   "Register as a company admin",
	Example: `  hirepipe register admin --email hr@acme.com --name "Sam Lee" --company Acme --job-title Recruiter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		email, _ := f.GetString("email")
		name, _ := f.GetString("name")
		company, _ := f.GetString("company")
		jobTitle, _ := f.GetString("job-title")
		department, _ := f.GetString("department")
		phone, _ := f.GetString("phone")
		password, confirm := passwords(cmd)

		user, err := a.Auth.RegisterAdmin(cmd.Context(), models.AdminRegistration{
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
			Name:            name,
			Company:         company,
			JobTitle:        jobTitle,
			Department:      department,
			Phone:           phone,
		})
		return registered(cmd, user, err)
	},
}

var registerSuperAdminCmd = &cobra.Command{
	Use:   "super-admin",
	Short: "Register as a platform super-admin (invite code required)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		email, _ := f.GetString("email")
		name, _ := f.GetString("name")
		invite, _ := f.GetString("invite-code")
		twoFactor, _ := f.GetBool("two-factor")
		password, confirm := passwords(cmd)

		user, err := a.Auth.RegisterSuperAdmin(cmd.Context(), models.SuperAdminRegistration{
			Email:            email,
			Password:         password,
			ConfirmPassword:  confirm,
			Name:             name,
			InviteCode:       invite,
			TwoFactorEnabled: twoFactor,
		})
		return registered(cmd, user, err)
	},
}

// passwords reads --password and --confirm-password, prompting for missing ones
func passwords(cmd *cobra.Command) (string, string) {
	password, _ := cmd.Flags().GetString("password")
	confirm, _ := cmd.Flags().GetString("confirm-password")
	if password == "" {
		password = prompt("Password: ")
	}
	if confirm == "" {
		if cmd.Flags().Changed("password") {
			confirm = password
		} else {
			confirm = prompt("Confirm password: ")
		}
	}
	return password, confirm
}

func registered(cmd *cobra.Command, user models.User, err error) error {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message)
	}
	if err != nil {
		return fmt.Errorf("registration: %w", err)
	}
	cmd.Printf("✓ Account created for %s (%s). You are signed in.\n", user.Name, user.Role)
	return nil
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, labelStyle.Render(label))
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	registerCmd.AddCommand(registerStudentCmd)
	registerCmd.AddCommand(registerAdminCmd)
	registerCmd.AddCommand(registerSuperAdminCmd)

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	for _, c := range []*cobra.Command{registerStudentCmd, registerAdminCmd, registerSuperAdminCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("name", "", "Full name")
		c.Flags().String("password", "", "Password (prompted when omitted)")
		c.Flags().String("confirm-password", "", "Password confirmation (defaults to --password)")
	}

	registerStudentCmd.Flags().String("phone", "", "Phone number")
	registerStudentCmd.Flags().StringSlice("skills", nil, "Comma-separated skills")
	registerStudentCmd.Flags().String("experience", "", "Experience summary")
	registerStudentCmd.Flags().String("education", "", "Education")
	registerStudentCmd.Flags().String("resume", "", "Resume URL")

	registerAdminCmd.Flags().String("company", "", "Company name")
	registerAdminCmd.Flags().String("job-title", "", "Your job title")
	registerAdminCmd.Flags().String("department", "", "Department")
	registerAdminCmd.Flags().String("phone", "", "Phone number")

	registerSuperAdminCmd.Flags().String("invite-code", "", "Platform invite code")
	registerSuperAdminCmd.Flags().Bool("two-factor", false, "Enable two-factor authentication")
}
