package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"shortsmith/internal/llm"
)

const provider = "gemini"

var DefaultModels = llm.ModelIDs{Fast: "gemini-2.0-flash", Quality: "gemini-2.5-pro"}

var _ llm.Generator = (*Client)(nil)

type Client struct {
	client *genai.Client
	models llm.ModelIDs
}

// Options selects the backend: an API key talks to the Gemini API, otherwise
// Project and Location address Vertex AI.
type Options struct {
	APIKey   string
	Project  string
	Location string
	Models   llm.ModelIDs
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.APIKey == "" {
		cfg = &genai.ClientConfig{
			Project:  opts.Project,
			Location: opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: client,
		models: withDefaults(opts.Models),
	}, nil
}

func withDefaults(models llm.ModelIDs) llm.ModelIDs {
	if models.Fast == "" {
		models.Fast = DefaultModels.Fast
	}
	if models.Quality == "" {
		models.Quality = DefaultModels.Quality
	}
	return models
}

func (c *Client) Generate(ctx context.Context, prompt string, model llm.Model) (string, error) {
	modelID, err := c.models.Resolve(model)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), nil)
	if err != nil {
		return "", &llm.ServiceError{
			Provider: provider,
			Err:      fmt.Errorf("generate: %w", err),
		}
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &llm.ServiceError{Provider: provider, Message: "no response"}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}
