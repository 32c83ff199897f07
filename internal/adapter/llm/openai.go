package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ahiree/chat-bot/internal/domain"
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint
// (OpenAI, Groq, Ollama).
type OpenAIClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	client      *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOpenAIClient(apiKeyEnv, model string) (*OpenAIClient, error) {
	return NewOpenAICompatibleClient(apiKeyEnv, model, "https://api.openai.com/v1")
}

func NewGroqClient(apiKeyEnv, model string) (*OpenAIClient, error) {
	return NewOpenAICompatibleClient(apiKeyEnv, model, "https://api.groq.com/openai/v1")
}

func NewOpenAICompatibleClient(apiKeyEnv, model, baseURL string) (*OpenAIClient, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Msg: "API key not found in environment variable: " + apiKeyEnv}
	}

	return &OpenAIClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: 0.3,
		maxTokens:   1024,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

func (c *OpenAIClient) Generate(prompt string) (string, error) {
	return c.complete([]chatMessage{{Role: "user", Content: prompt}})
}

func (c *OpenAIClient) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	return c.complete([]chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

func (c *OpenAIClient) ModelName() string {
	return c.model
}

func (c *OpenAIClient) complete(messages []chatMessage) (string, error) {
	jsonData, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.CompletionError{Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if chatResp.Error != nil {
		return "", &domain.CompletionError{Err: fmt.Errorf("API error: %s", chatResp.Error.Message)}
	}
	if len(chatResp.Choices) == 0 {
		return "", &domain.CompletionError{Err: fmt.Errorf("API returned no choices")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
