// Package ai talks to the AI text providers behind the assistant commands.
// Unlike the platform data services, every failure here is returned to the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/khrees2412/hirepipe/internal/config"
)

var (
	ErrMissingKey          = errors.New("AI API key not configured")
	ErrUnsupportedProvider = errors.New("unsupported AI provider")
	ErrEmptyResponse       = errors.New("AI provider returned no content")
)

// Assistant answers a free-form prompt
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion. Zero values use the provider defaults.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Settings selects and authenticates a provider
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

var defaultEndpoints = map[string]string{
	"perplexity": "https://api.perplexity.ai",
	"openai":     "https://api.openai.com/v1",
	"ollama":     "http://localhost:11434",
}

var defaultModels = map[string]string{
	"perplexity": "sonar-pro",
	"openai":     "gpt-4",
	"ollama":     "llama3.2",
}

// SettingsFromConfig picks the key and endpoint for the configured provider
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{Provider: cfg.AIProvider, Model: cfg.AIModel}
	switch cfg.AIProvider {
	case "perplexity":
		s.APIKey = cfg.PerplexityKey
	case "openai":
		s.APIKey = cfg.OpenAIKey
	case "ollama":
		s.BaseURL = cfg.OllamaURL
	}
	return s
}

// Client is a chat-completions client for one provider
type Client struct {
	settings   Settings
	httpClient *http.Client
}

// NewClient validates settings and fills in provider defaults
func NewClient(settings Settings, httpClient *http.Client) (*Client, error) {
	base, ok := defaultEndpoints[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, settings.Provider)
	}
	if settings.Provider != "ollama" && settings.APIKey == "" {
		return nil, fmt.Errorf("%w for %s. Run: hirepipe config set --key %s_key --value YOUR_KEY",
			ErrMissingKey, settings.Provider, settings.Provider)
	}
	if settings.BaseURL == "" {
		settings.BaseURL = base
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	if settings.Model == "" {
		settings.Model = defaultModels[settings.Provider]
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{settings: settings, httpClient: httpClient}, nil
}

// Provider returns the configured provider name
func (c *Client) Provider() string {
	return c.settings.Provider
}

// Ask sends prompt as a single user message
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []Message{{Role: "user", Content: prompt}}, Options{})
}

// Chat runs one completion over messages
func (c *Client) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if opts.Model == "" {
		opts.Model = c.settings.Model
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}

	if c.settings.Provider == "ollama" {
		return c.generateWithOllama(ctx, messages, opts)
	}
	return c.chatCompletion(ctx, messages, opts)
}

// chatCompletion serves the OpenAI-compatible providers
func (c *Client) chatCompletion(ctx context.Context, messages []Message, opts Options) (string, error) {
	reqBody := map[string]interface{}{
		"model":       opts.Model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"top_p":       opts.TopP,
		"max_tokens":  opts.MaxTokens,
	}

	body, err := c.post(ctx, c.settings.BaseURL+"/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unexpected response format from %s: %w", c.settings.Provider, err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// generateWithOllama folds system messages into the system field of a generate call
func (c *Client) generateWithOllama(ctx context.Context, messages []Message, opts Options) (string, error) {
	var system, prompt []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		prompt = append(prompt, m.Content)
	}

	reqBody := map[string]interface{}{
		"model":  opts.Model,
		"prompt": strings.Join(prompt, "\n\n"),
		"stream": false,
		"options": map[string]interface{}{
			"temperature": opts.Temperature,
			"top_p":       opts.TopP,
			"num_predict": opts.MaxTokens,
		},
	}
	if len(system) > 0 {
		reqBody["system"] = strings.Join(system, "\n")
	}

	body, err := c.post(ctx, c.settings.BaseURL+"/api/generate", reqBody)
	if err != nil {
		return "", err
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unexpected response format from ollama: %w", err)
	}
	if strings.TrimSpace(result.Response) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Response), nil
}

func (c *Client) post(ctx context.Context, url string, reqBody interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.settings.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error: %s", c.settings.Provider, apiErrorMessage(body, resp.Status))
	}
	return body, nil
}

func apiErrorMessage(body []byte, status string) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}
