package llm

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Client defines the single completion call the extraction adapter needs.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient calls the OpenAI API for extraction completions.  API
// credentials and the model name are loaded from environment variables.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed LLM client.  It reads the
// API key and model name from the environment and falls back to a sensible
// default model.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	c := openai.NewClient(apiKey)

	model := os.Getenv("OPENAI_MODEL_EXTRACT")
	if model == "" {
		// default to a modern small model; can be overridden via env
		model = "gpt-4o-mini"
	}

	return &OpenAIClient{client: c, model: model}
}

// Complete sends the prompt to the chat completion API and returns the raw
// reply text.  Temperature is kept low: the caller expects a mechanical
// Key: Value block, not prose.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
