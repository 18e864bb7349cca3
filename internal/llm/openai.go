package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatibleClient implements Client against any OpenAI-compatible
// chat-completions endpoint (OpenAI itself, or a self-hosted gateway that
// speaks the same wire format) via the endpoint/model/key triple in
// configuration.
type OpenAICompatibleClient struct {
	client *openai.Client
	model  string
}

// NewOpenAICompatibleClient builds a client against endpoint with model and
// apiKey. An empty endpoint uses the library's default (api.openai.com).
func NewOpenAICompatibleClient(endpoint, model, apiKey string) *OpenAICompatibleClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &OpenAICompatibleClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAICompatibleClient) Name() string { return "openai-compatible" }

// Complete issues a single non-streaming chat completion. Tool use and
// streaming are out of scope for this client: the Semantic Translator and
// mixed-intent narrative both need one finished text response, never a
// token stream or function call.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai-compatible completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai-compatible completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
