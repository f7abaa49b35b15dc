package chat

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultModel = "local-model"

// Client is a thin pass-through to a local OpenAI-compatible model server.
// No prompt shaping happens here; the conversation is forwarded as-is.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseURL string, model string) *Client {
	// Local servers ignore the key, but the SDK insists on one.
	c := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey("local"),
	)
	if model == "" {
		model = defaultModel
	}
	return &Client{client: &c, model: model}
}

// Message mirrors the chat wire shape the callers already speak.
type Message struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// Complete forwards the conversation and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
	}
	for _, m := range messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
