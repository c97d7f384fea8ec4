package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Browse and manage job postings",
	Long:  "List, view, post and import job postings",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	Example: `  hirepipe job list
  hirepipe job list --search frontend --location "San Francisco"
  hirepipe job list --skills React,TypeScript --type full-time`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		search, _ := f.GetString("search")
		location, _ := f.GetString("location")
		employment, _ := f.GetString("type")
		skills, _ := f.GetStringSlice("skills")

		list, err := a.Jobs.List(cmd.Context(), jobs.Filter{
			Search:         search,
			Location:       location,
			EmploymentType: employment,
			Skills:         skills,
		})
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		if len(list) == 0 {
			cmd.Println("No jobs match your filters.")
			return nil
		}

		cmd.Println(titleStyle.Render("Job Postings"))
		for i, job := range list {
			cmd.Printf("\n%s. %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), job.Title)
			cmd.Printf("   %s %s\n", labelStyle.Render("Company:"), job.Company)
			if job.Location != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Location:"), job.Location)
			}
			if job.Salary != nil && job.Salary.String() != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Salary:"), job.Salary)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.ID)
			cmd.Printf("   %s %d\n", labelStyle.Render("Applicants:"), job.ApplicationCount)
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if _, err := a.Jobs.List(cmd.Context(), jobs.Filter{}); err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		job, err := a.Jobs.Get(args[0])
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render(job.Title))
		printField(cmd, "Company:", job.Company)
		printField(cmd, "Location:", job.Location)
		printField(cmd, "Type:", job.EmploymentType)
		if job.Salary != nil {
			printField(cmd, "Salary:", job.Salary.String())
		}
		printField(cmd, "Status:", string(job.Status))
		if !job.PostedDate.IsZero() {
			printField(cmd, "Posted:", job.PostedDate.Format("Jan 2, 2006"))
		}
		if job.Deadline != nil {
			printField(cmd, "Deadline:", job.Deadline.Format("Jan 2, 2006"))
		}
		printField(cmd, "Skills:", strings.Join(job.Skills, ", "))
		printField(cmd, "URL:", job.URL)

		if job.Description != "" {
			cmd.Println(labelStyle.Render("\nDescription:"))
			cmd.Println(job.Description)
		}
		if len(job.Requirements) > 0 {
			cmd.Println(labelStyle.Render("\nRequirements:"))
			for _, r := range job.Requirements {
				cmd.Printf("  • %s\n", r)
			}
		}

		apps, err := a.Applications.List(cmd.Context())
		if err == nil {
			for _, app := range apps {
				if app.JobID == job.ID {
					cmd.Printf("\n%s %s\n", labelStyle.Render("Your application:"), statusBadge(app.Status))
					break
				}
			}
		}
		return nil
	},
}

var addJobCmd = &cobra.Command{
	Use:     "add",
	Short:   "Post a new job (admins)",
	Example: `  hirepipe job add --title "Software Engineer" --company "Acme Inc" --location Remote --skills Go,SQL`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		user, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin)
		if err != nil {
			return err
		}

		f := cmd.Flags()
		title, _ := f.GetString("title")
		company, _ := f.GetString("company")
		location, _ := f.GetString("location")
		description, _ := f.GetString("description")
		employment, _ := f.GetString("type")
		skills, _ := f.GetStringSlice("skills")
		requirements, _ := f.GetStringSlice("requirements")
		salary, _ := f.GetString("salary")

		if title == "" || company == "" {
			return fmt.Errorf("both --title and --company are required")
		}

		draft := models.Job{
			Title:          title,
			Company:        company,
			Location:       location,
			Description:    description,
			EmploymentType: employment,
			Skills:         skills,
			Requirements:   requirements,
			AdminID:        user.ID,
		}
		if salary != "" {
			draft.Salary = &models.Salary{Text: salary}
		}
		return createJob(cmd, draft)
	},
}

var importJobCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Import a job posting from a URL",
	Long: `Render a posting in headless Chrome (or fetch it directly when Chrome is not
available) and extract the title, company and description. Use --save to post it.`,
	Example: `  hirepipe job import https://boards.greenhouse.io/acme/jobs/123
  hirepipe job import https://jobs.lever.co/acme/abc --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		cmd.Printf("Fetching job details from %s...\n", args[0])
		draft, err := a.Importer.ImportJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("could not import job: %w", err)
		}

		cmd.Println(titleStyle.Render(draft.Title))
		printField(cmd, "Company:", draft.Company)
		printField(cmd, "URL:", draft.URL)
		if draft.Description != "" {
			cmd.Println(draft.Description)
		}

		if save, _ := cmd.Flags().GetBool("save"); !save {
			return nil
		}
		user, err := requireRole(a, models.RoleAdmin, models.RoleSuperAdmin)
		if err != nil {
			return err
		}
		draft.AdminID = user.ID
		draft.Status = models.JobActive
		return createJob(cmd, draft)
	},
}

var jobStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show posting statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		out, err := a.Jobs.Stats(cmd.Context())
		if err != nil {
			return err
		}
		noteFallback(cmd, out.Source)

		s := out.Value
		cmd.Println(titleStyle.Render("Job Statistics"))
		cmd.Printf("  Total Jobs: %d\n", s.TotalJobs)
		cmd.Printf("  Active Jobs: %d\n", s.ActiveJobs)
		cmd.Printf("  Total Applications: %d\n", s.TotalApplications)
		cmd.Printf("  Avg Applications per Job: %.1f\n", s.AverageApplicationsPerJob)
		return nil
	},
}

func createJob(cmd *cobra.Command, draft models.Job) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	out, err := a.Jobs.Create(cmd.Context(), draft)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	noteFallback(cmd, out.Source)
	cmd.Printf("✓ Job posted: %s at %s (ID: %s)\n", out.Value.Title, out.Value.Company, out.Value.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(addJobCmd)
	jobCmd.AddCommand(importJobCmd)
	jobCmd.AddCommand(jobStatsCmd)

	listJobsCmd.Flags().String("search", "", "Match title or company")
	listJobsCmd.Flags().String("location", "", "Filter by location")
	listJobsCmd.Flags().String("type", "", "Employment type (full-time, part-time, contract, internship)")
	listJobsCmd.Flags().StringSlice("skills", nil, "Required skills")

	addJobCmd.Flags().String("title", "", "Job title")
	addJobCmd.Flags().String("company", "", "Company name")
	addJobCmd.Flags().String("location", "", "Job location")
	addJobCmd.Flags().String("description", "", "Job description")
	addJobCmd.Flags().String("type", "full-time", "Employment type")
	addJobCmd.Flags().StringSlice("skills", nil, "Skills")
	addJobCmd.Flags().StringSlice("requirements", nil, "Requirements")
	addJobCmd.Flags().String("salary", "", "Salary range, e.g. \"$80k - $120k\"")

	importJobCmd.Flags().Bool("save", false, "Post the imported job")
}
