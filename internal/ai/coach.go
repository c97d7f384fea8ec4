package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Chatter runs chat completions
type Chatter interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

const formatInstruction = "\n\nPlease format the response as a short, attractive set of lines for display to users:\n" +
	"- Start with a one-line title or summary (prefixed with ✨).\n" +
	"- Then provide concise points (2-8), each on its own line.\n" +
	"- Use short, clear sentences. Prefer bullets or numbered lines.\n" +
	"- Keep each line to one or two short phrases; avoid long paragraphs.\n" +
	"- Use friendly tone and optionally an emoji for emphasis."

const defaultSystemPrompt = "You are a helpful AI assistant for career and technical guidance."

// Coach wraps a Chatter with the career-coaching prompts
type Coach struct {
	chat Chatter
}

// NewCoach creates a coach on top of chat
func NewCoach(chat Chatter) *Coach {
	return &Coach{chat: chat}
}

func (c *Coach) run(ctx context.Context, system, user string, maxTokens int) (string, error) {
	return c.chat.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user + formatInstruction},
	}, Options{MaxTokens: maxTokens})
}

// InterviewFeedback reviews an answer to an interview question
func (c *Coach) InterviewFeedback(ctx context.Context, question, answer string) (string, error) {
	return c.run(ctx,
		"You are an expert interview coach. Provide constructive feedback on interview answers.",
		fmt.Sprintf("Question: %s\n\nCandidate's Answer: %s\n\nProvide detailed feedback on this answer including: strengths, areas for improvement, and suggestions for a better response.", question, answer),
		800)
}

// CodingExplanation walks through a coding problem
func (c *Coach) CodingExplanation(ctx context.Context, problem string) (string, error) {
	return c.run(ctx,
		"You are an expert programming instructor. Explain coding problems clearly with step-by-step solutions.",
		fmt.Sprintf("Coding Problem: %s\n\nProvide a clear explanation with: problem understanding, approach, algorithm, and code example.", problem),
		1000)
}

// JobFit compares a student profile with a job description
func (c *Coach) JobFit(ctx context.Context, profile, jobDescription string) (string, error) {
	return c.run(ctx,
		"You are an expert career advisor. Analyze job fit and provide recommendations.",
		fmt.Sprintf("Student Profile: %s\n\nJob Description: %s\n\nProvide: match percentage, key skill gaps, preparation suggestions, and likelihood of success.", profile, jobDescription),
		800)
}

// ResumeReview critiques a resume for a target job
func (c *Coach) ResumeReview(ctx context.Context, resume, jobTitle string) (string, error) {
	return c.run(ctx,
		"You are an expert resume reviewer. Provide actionable feedback to improve resumes.",
		fmt.Sprintf("Resume Content:\n%s\n\nTarget Job: %s\n\nProvide feedback on: relevance, formatting, impact of achievements, and specific improvements needed.", resume, jobTitle),
		1000)
}

// MockInterviewQuestions generates count practice questions for a role
func (c *Coach) MockInterviewQuestions(ctx context.Context, jobTitle, company string, count int) (string, error) {
	if count <= 0 {
		count = 5
	}
	return c.run(ctx,
		"You are an expert interview trainer. Generate realistic and challenging interview questions.",
		fmt.Sprintf("Generate %d realistic interview questions for the position of %s at %s. Include technical, behavioral, and situational questions appropriate for this role.", count, jobTitle, company),
		1200)
}

// SkillAnalysis suggests what to learn next for a target role
func (c *Coach) SkillAnalysis(ctx context.Context, skills []string, targetRole string) (string, error) {
	return c.run(ctx,
		"You are a career development expert. Analyze skills and provide learning recommendations.",
		fmt.Sprintf("Current Skills: %s\n\nTarget Role: %s\n\nAnalyze skill fit and suggest: priority skills to learn, learning resources, timeline, and career progression path.", strings.Join(skills, ", "), targetRole),
		1000)
}

// AskQuestion answers a general question. An empty persona uses the default assistant.
func (c *Coach) AskQuestion(ctx context.Context, question, persona string) (string, error) {
	if persona == "" {
		persona = defaultSystemPrompt
	}
	return c.run(ctx, persona, question, 1024)
}

// AskMany answers questions concurrently. The first failure cancels the rest and is returned.
func (c *Coach) AskMany(ctx context.Context, questions []string) ([]string, error) {
	answers := make([]string, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			answer, err := c.AskQuestion(gctx, q, "")
			if err != nil {
				return err
			}
			answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

// Session is a running conversation. History only grows with completed exchanges.
type Session struct {
	chat   Chatter
	system string

	mu      sync.Mutex
	history []Message
}

// NewSession starts a conversation with an optional system prompt
func NewSession(chat Chatter, system string) *Session {
	if system == "" {
		system = defaultSystemPrompt
	}
	return &Session{chat: chat, system: system}
}

// Send adds a user turn and returns the reply. A failed call leaves the history untouched.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]Message, 0, len(s.history)+2)
	messages = append(messages, Message{Role: "system", Content: s.system})
	messages = append(messages, s.history...)
	messages = append(messages, Message{Role: "user", Content: text})

	reply, err := s.chat.Chat(ctx, messages, Options{})
	if err != nil {
		return "", err
	}
	s.history = append(s.history,
		Message{Role: "user", Content: text},
		Message{Role: "assistant", Content: reply},
	)
	return reply, nil
}

// History returns a copy of the completed turns
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}
