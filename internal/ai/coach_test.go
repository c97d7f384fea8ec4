package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder echoes the last user message and remembers every call
type recorder struct {
	mu    sync.Mutex
	calls [][]Message
	opts  []Options
	err   error
}

func (r *recorder) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]Message(nil), messages...))
	r.opts = append(r.opts, opts)
	if r.err != nil {
		return "", r.err
	}
	last := messages[len(messages)-1].Content
	return "re: " + strings.SplitN(last, "\n", 2)[0], nil
}

func TestCoachPrompts(t *testing.T) {
	rec := &recorder{}
	coach := NewCoach(rec)

	_, err := coach.InterviewFeedback(context.Background(), "Tell me about yourself", "I like Go")
	require.NoError(t, err)
	_, err = coach.SkillAnalysis(context.Background(), []string{"Go", "SQL"}, "Backend Engineer")
	require.NoError(t, err)
	_, err = coach.MockInterviewQuestions(context.Background(), "SRE", "Acme", 0)
	require.NoError(t, err)

	require.Len(t, rec.calls, 3)
	first := rec.calls[0]
	require.Len(t, first, 2)
	assert.Equal(t, "system", first[0].Role)
	assert.Contains(t, first[0].Content, "interview coach")
	assert.Contains(t, first[1].Content, "Candidate's Answer: I like Go")
	assert.True(t, strings.HasSuffix(first[1].Content, formatInstruction))
	assert.Equal(t, 800, rec.opts[0].MaxTokens)

	assert.Contains(t, rec.calls[1][1].Content, "Current Skills: Go, SQL")
	assert.Contains(t, rec.calls[2][1].Content, "Generate 5 realistic interview questions for the position of SRE at Acme")
}

func TestCoachErrorsAreReturned(t *testing.T) {
	boom := errors.New("rate limited")
	coach := NewCoach(&recorder{err: boom})

	_, err := coach.AskQuestion(context.Background(), "What is a goroutine?", "")
	assert.ErrorIs(t, err, boom)

	_, err = coach.AskMany(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, boom)
}

func TestAskManyKeepsOrder(t *testing.T) {
	coach := NewCoach(&recorder{})

	answers, err := coach.AskMany(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	assert.Equal(t, []string{"re: first", "re: second", "re: third"}, answers)
}

func TestSessionHistory(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, "")

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "and then?")
	require.NoError(t, err)

	assert.Equal(t, []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "re: hello"},
		{Role: "user", Content: "and then?"},
		{Role: "assistant", Content: "re: and then?"},
	}, s.History())
	assert.Len(t, rec.calls[1], 4)
	assert.Equal(t, defaultSystemPrompt, rec.calls[1][0].Content)

	rec.err = errors.New("down")
	_, err = s.Send(context.Background(), "still there?")
	assert.Error(t, err)
	assert.Len(t, s.History(), 4)
}
