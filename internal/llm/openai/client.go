package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"billaudit-backend/internal/llm"
	"billaudit-backend/internal/shared/telemetry"
)

// The generation budget for one analysis. Bill analyses are short structured
// JSON documents; anything past this ceiling is runaway output.
const maxCompletionTokens = 2000

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a new OpenAI-backed client. The timeout is the upper
// bound on one inference round trip; expiry surfaces as an ordinary error.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}, nil
}

// AnalyzeBill sends a single chat completion request. Document bills carry the
// instruction plus inlined text; image bills attach the data URI as a second
// content part of the same user message. No retries on failure.
func (c *Client) AnalyzeBill(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if input.ImageDataURI != "" {
		message.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: input.Prompt,
			},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: input.ImageDataURI},
			},
		}
	} else {
		message.Content = input.Prompt
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  []openai.ChatCompletionMessage{message},
		MaxTokens: maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}

	telemetry.Info("llm.response", map[string]any{
		"model":             resp.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
		"duration_ms":       time.Since(start).Milliseconds(),
	})
	return content, nil
}

var _ llm.Client = (*Client)(nil)
