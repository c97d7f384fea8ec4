package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khrees2412/hirepipe/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Settings{Provider: "anthropic"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = NewClient(Settings{Provider: "perplexity"}, nil)
	assert.ErrorIs(t, err, ErrMissingKey)

	c, err := NewClient(Settings{Provider: "ollama"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", c.settings.Model)
	assert.Equal(t, "http://localhost:11434", c.settings.BaseURL)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{AIProvider: "openai", AIModel: "gpt-4o", OpenAIKey: "sk-1", PerplexityKey: "pplx-1"}
	assert.Equal(t, Settings{Provider: "openai", Model: "gpt-4o", APIKey: "sk-1"}, SettingsFromConfig(cfg))
}

func TestChatCompletion(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer pplx-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Practice daily.  "}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Settings{Provider: "perplexity", APIKey: "pplx-key", BaseURL: srv.URL + "/"}, srv.Client())
	require.NoError(t, err)

	answer, err := c.Ask(context.Background(), "How do I get better at interviews?")
	require.NoError(t, err)
	assert.Equal(t, "Practice daily.", answer)
	assert.Equal(t, "sonar-pro", got["model"])
	assert.EqualValues(t, 1024, got["max_tokens"])
}

func TestChatErrorsPropagate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`, "perplexity API error: invalid api key"},
		{"plain error", http.StatusBadGateway, `upstream down`, "perplexity API error: upstream down"},
		{"empty choices", http.StatusOK, `{"choices":[]}`, ErrEmptyResponse.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(Settings{Provider: "perplexity", APIKey: "k", BaseURL: srv.URL}, srv.Client())
			require.NoError(t, err)

			_, err = c.Ask(context.Background(), "hi")
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestOllamaGenerate(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"Use a hash map."}`))
	}))
	defer srv.Close()

	c, err := NewClient(Settings{Provider: "ollama", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	answer, err := c.Chat(context.Background(), []Message{
		{Role: "system", Content: "You are terse."},
		{Role: "user", Content: "Two sum?"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Use a hash map.", answer)
	assert.Equal(t, "You are terse.", got["system"])
	assert.Equal(t, "Two sum?", got["prompt"])
	assert.Equal(t, false, got["stream"])
}
