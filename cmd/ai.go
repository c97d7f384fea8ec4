package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/khrees2412/hirepipe/internal/ai"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI coach a question",
	Example: `  hirepipe ask "How do I prepare for a system design round?"
  hirepipe ask "What should I negotiate?" "Is equity worth it?" --persona "a senior recruiter"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		coach, err := a.Coach()
		if err != nil {
			return err
		}
		persona, _ := cmd.Flags().GetString("persona")

		if len(args) == 1 {
			cmd.Println("Thinking...")
			answer, err := coach.AskQuestion(cmd.Context(), args[0], persona)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			cmd.Println(answer)
			return nil
		}

		cmd.Printf("Asking %d questions...\n", len(args))
		answers, err := coach.AskMany(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		for i, answer := range answers {
			cmd.Println(titleStyle.Render(args[i]))
			cmd.Println(answer)
		}
		return nil
	},
}

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI coaching tools",
	Long:  "Interview feedback, resume review, skill analysis and practice questions from the configured AI provider",
}

var interviewFeedbackCmd = &cobra.Command{
	Use:     "interview-feedback",
	Short:   "Get feedback on an interview answer",
	Example: `  hirepipe ai interview-feedback --question "Tell me about yourself" --answer "I am a..."`,
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		question, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")
		return coach.InterviewFeedback(cmd.Context(), question, answer)
	}),
}

var codingCmd = &cobra.Command{
	Use:     "coding",
	Short:   "Explain how to approach a coding problem",
	Example: `  hirepipe ai coding --problem "Find the longest substring without repeating characters"`,
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		problem, _ := cmd.Flags().GetString("problem")
		return coach.CodingExplanation(cmd.Context(), problem)
	}),
}

var jobFitCmd = &cobra.Command{
	Use:   "job-fit <job-id>",
	Short: "Compare your profile with a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		a, err := appFrom(cmd)
		if err != nil {
			return "", err
		}
		user, err := currentUser(a)
		if err != nil {
			return "", err
		}
		if _, err := a.Jobs.List(cmd.Context(), jobs.Filter{}); err != nil {
			return "", fmt.Errorf("fetch jobs: %w", err)
		}
		job, err := a.Jobs.Get(args[0])
		if err != nil {
			return "", err
		}
		return coach.JobFit(cmd.Context(), profileSummary(user), jobSummary(job))
	}),
}

var resumeReviewCmd = &cobra.Command{
	Use:     "resume-review",
	Short:   "Review a resume for a target role",
	Example: `  hirepipe ai resume-review --file resume.txt --job-title "Backend Engineer"`,
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		path, _ := cmd.Flags().GetString("file")
		jobTitle, _ := cmd.Flags().GetString("job-title")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read resume: %w", err)
		}
		return coach.ResumeReview(cmd.Context(), string(data), jobTitle)
	}),
}

var mockQuestionsCmd = &cobra.Command{
	Use:     "mock-questions",
	Short:   "Generate mock interview questions",
	Example: `  hirepipe ai mock-questions --job-title "Frontend Developer" --company "TechCorp" --count 8`,
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		jobTitle, _ := cmd.Flags().GetString("job-title")
		company, _ := cmd.Flags().GetString("company")
		count, _ := cmd.Flags().GetInt("count")
		return coach.MockInterviewQuestions(cmd.Context(), jobTitle, company, count)
	}),
}

var skillsCmd = &cobra.Command{
	Use:     "skills",
	Short:   "Analyze your skills against a target role",
	Example: `  hirepipe ai skills --role "Data Engineer" --skills Python,SQL,Airflow`,
	RunE: runCoach(func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error) {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		role, _ := cmd.Flags().GetString("role")
		if len(skills) == 0 {
			if a, err := appFrom(cmd); err == nil {
				if user, err := currentUser(a); err == nil && user.Profile != nil {
					skills = user.Profile.Skills
				}
			}
		}
		if len(skills) == 0 {
			return "", fmt.Errorf("pass --skills or add skills to your profile")
		}
		return coach.SkillAnalysis(cmd.Context(), skills, role)
	}),
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the coach",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		client, err := a.AIClient()
		if err != nil {
			return err
		}
		system, _ := cmd.Flags().GetString("system")
		session := ai.NewSession(client, system)

		cmd.Println(titleStyle.Render(fmt.Sprintf("AI Coach (%s)", client.Provider())))
		cmd.Println("Type 'exit' to quit")

		reader := bufio.NewReader(os.Stdin)
		for {
			cmd.Print("\n> ")
			line, err := reader.ReadString('\n')
			text := strings.TrimSpace(line)
			if text == "exit" || text == "quit" || (err != nil && text == "") {
				return nil
			}
			if text == "" {
				continue
			}
			reply, err := session.Send(cmd.Context(), text)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				continue
			}
			cmd.Println(reply)
		}
	},
}

// runCoach builds the coach and prints what fn returns
func runCoach(fn func(cmd *cobra.Command, args []string, coach *ai.Coach) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		coach, err := a.Coach()
		if err != nil {
			return err
		}
		cmd.Println("Generating with AI...")
		out, err := fn(cmd, args, coach)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	}
}

func profileSummary(user models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", user.Name)
	if p := user.Profile; p != nil {
		if len(p.Skills) > 0 {
			fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
		}
		if p.Experience != "" {
			fmt.Fprintf(&b, "Experience: %s\n", p.Experience)
		}
		if p.Education != "" {
			fmt.Fprintf(&b, "Education: %s\n", p.Education)
		}
	}
	return b.String()
}

func jobSummary(job models.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s\n", job.Title, job.Company)
	if job.Description != "" {
		fmt.Fprintf(&b, "%s\n", job.Description)
	}
	if len(job.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(job.Requirements, "; "))
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(interviewFeedbackCmd)
	aiCmd.AddCommand(codingCmd)
	aiCmd.AddCommand(jobFitCmd)
	aiCmd.AddCommand(resumeReviewCmd)
	aiCmd.AddCommand(mockQuestionsCmd)
	aiCmd.AddCommand(skillsCmd)
	aiCmd.AddCommand(chatCmd)

	askCmd.Flags().String("persona", "", "Who the coach should answer as")

	interviewFeedbackCmd.Flags().String("question", "", "Interview question")
	interviewFeedbackCmd.Flags().String("answer", "", "Your answer")
	_ = interviewFeedbackCmd.MarkFlagRequired("question")
	_ = interviewFeedbackCmd.MarkFlagRequired("answer")

	codingCmd.Flags().String("problem", "", "Problem statement")
	_ = codingCmd.MarkFlagRequired("problem")

	resumeReviewCmd.Flags().String("file", "", "Plain-text resume")
	resumeReviewCmd.Flags().String("job-title", "", "Target role")
	_ = resumeReviewCmd.MarkFlagRequired("file")

	mockQuestionsCmd.Flags().String("job-title", "", "Job title")
	mockQuestionsCmd.Flags().String("company", "", "Company")
	mockQuestionsCmd.Flags().Int("count", 5, "Number of questions")
	_ = mockQuestionsCmd.MarkFlagRequired("job-title")

	skillsCmd.Flags().StringSlice("skills", nil, "Your skills (defaults to your profile)")
	skillsCmd.Flags().String("role", "", "Target role")

	chatCmd.Flags().String("system", "", "System prompt")
}
