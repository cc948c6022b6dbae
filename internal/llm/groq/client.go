package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"shortsmith/internal/llm"
)

const provider = "groq"

var DefaultModels = llm.ModelIDs{Fast: "llama-3.1-8b-instant", Quality: "llama-3.3-70b-versatile"}

var _ llm.Generator = (*Client)(nil)

type Client struct {
	client *groq.Client
	models llm.ModelIDs
}

type Options struct {
	BaseURL string
	Models  llm.ModelIDs
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	var (
		client *groq.Client
		err    error
	)
	if opts.BaseURL != "" {
		client, err = groq.NewClient(apiKey, groq.WithBaseURL(opts.BaseURL))
	} else {
		client, err = groq.NewClient(apiKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	models := opts.Models
	if models.Fast == "" {
		models.Fast = DefaultModels.Fast
	}
	if models.Quality == "" {
		models.Quality = DefaultModels.Quality
	}

	return &Client{
		client: client,
		models: models,
	}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, model llm.Model) (string, error) {
	modelID, err := c.models.Resolve(model)
	if err != nil {
		return "", err
	}

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: groq.ChatModel(modelID),
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &llm.ServiceError{
			Provider: provider,
			Err:      fmt.Errorf("generate: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &llm.ServiceError{
			Provider:  provider,
			RequestID: resp.ID,
			Message:   "no response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}
