// Package advisor answers wellness questions through an OpenAI-compatible
// chat completion API, grounding the prompt in the user's stored records.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
)

var (
	ErrNoProvider = errors.New("no AI provider configured")
	// ErrRemoteCall is storage.ErrRemoteCall so callers classify both alike.
	ErrRemoteCall = storage.ErrRemoteCall
)

const systemPrompt = `You are a holistic wellness advisor. You help the user with fitness, nutrition, mindfulness, finances, learning and career.
Base your answer on the user's data below. Be specific and encouraging, and keep it short.
Respond with JSON only:
{"message": "your answer", "recommendations": ["short actionable step", "..."], "goalUpdates": {"daily": {...}, "weekly": {...}}}
Leave goalUpdates out unless the user asks to change goals.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the parsed answer. Provider names the API that produced it.
type Reply struct {
	Message         string          `json:"message"`
	Recommendations []string        `json:"recommendations,omitempty"`
	GoalUpdates     json.RawMessage `json:"goalUpdates,omitempty"`
	Provider        string          `json:"provider,omitempty"`
}

type Provider struct {
	Name   string
	APIURL string
	APIKey string
	Model  string
}

// ProvidersFromConfig returns the providers that have an API key, in
// fallback order.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	all := []Provider{
		{Name: "openai", APIURL: cfg.OpenAIAPIURL, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel},
		{Name: "deepseek", APIURL: cfg.DeepSeekAPIURL, APIKey: cfg.DeepSeekAPIKey, Model: cfg.DeepSeekModel},
		{Name: "glm", APIURL: cfg.GLMAPIURL, APIKey: cfg.GLMAPIKey, Model: cfg.GLMModel},
	}
	var out []Provider
	for _, p := range all {
		if p.APIKey != "" && p.APIURL != "" {
			out = append(out, p)
		}
	}
	return out
}

type Service struct {
	providers []Provider
	timeout   time.Duration
	http      *http.Client
}

type Option func(*Service)

func WithProviders(p ...Provider) Option {
	return func(s *Service) { s.providers = p }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) { s.http = hc }
}

func NewService(cfg *config.Config, opts ...Option) *Service {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	s := &Service{
		providers: ProvidersFromConfig(cfg),
		timeout:   timeout,
		http:      &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Configured() bool {
	return len(s.providers) > 0
}

// Chat answers question with the user's records and the prior turns of the
// conversation as context. Providers are tried in order until one answers.
func (s *Service) Chat(ctx context.Context, backend storage.Backend, history []Message, question string) (*Reply, error) {
	if !s.Configured() {
		return nil, ErrNoProvider
	}

	messages := buildMessages(BuildContext(ctx, backend), history, question)

	var lastErr error
	for _, p := range s.providers {
		content, err := s.complete(ctx, p, messages)
		if err != nil {
			slog.Warn("advisor provider failed", "provider", p.Name, "error", err)
			lastErr = err
			continue
		}
		reply := parseReply(content)
		reply.Provider = p.Name
		return &reply, nil
	}
	return nil, storage.RemoteCall("chat", "", lastErr)
}

func buildMessages(contextBlock string, history []Message, question string) []Message {
	messages := make([]Message, 0, len(history)+3)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	if contextBlock != "" {
		messages = append(messages, Message{Role: "system", Content: "User data:\n" + contextBlock})
	}
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		messages = append(messages, m)
	}
	return append(messages, Message{Role: "user", Content: question})
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, p Provider, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: p.Model, Messages: messages, Temperature: 0.7})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to extract content from AI response")
		}
		return string(b), nil
	}
}

// parseReply accepts a JSON reply, a fenced JSON reply, JSON embedded in
// prose, and finally plain text, which becomes the message as is.
func parseReply(content string) Reply {
	content = stripFences(strings.TrimSpace(content))

	var parsed Reply
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Message != "" {
		return parsed
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		parsed = Reply{}
		if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err == nil && parsed.Message != "" {
			return parsed
		}
	}

	return Reply{Message: content}
}

func stripFences(content string) string {
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	} else {
		return content
	}
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
