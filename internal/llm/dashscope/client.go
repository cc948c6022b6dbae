package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortsmith/internal/llm"
)

const (
	provider       = "dashscope"
	defaultBaseURL = "https://dashscope.aliyuncs.com/api/v1"
	generationPath = "/services/aigc/text-generation/generation"
	defaultTimeout = 120 * time.Second
	roleUser       = "user"
	resultFormat   = "message"
)

var DefaultModels = llm.ModelIDs{Fast: "qwen-turbo", Quality: "qwen-max"}

var _ llm.Generator = (*Client)(nil)

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	models     llm.ModelIDs
}

type Options struct {
	BaseURL string
	Models  llm.ModelIDs
}

type option func(*Client)

func withHTTPClient(client *http.Client) option {
	return func(c *Client) {
		c.httpClient = client
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model      string     `json:"model"`
	Input      input      `json:"input"`
	Parameters parameters `json:"parameters"`
}

type input struct {
	Messages []message `json:"messages"`
}

type parameters struct {
	ResultFormat string `json:"result_format"`
}

type response struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Output    struct {
		Text    string `json:"text"`
		Choices []struct {
			FinishReason string  `json:"finish_reason"`
			Message      message `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func NewClient(apiKey string, opts Options, options ...option) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}

	models := opts.Models
	if models.Fast == "" {
		models.Fast = DefaultModels.Fast
	}
	if models.Quality == "" {
		models.Quality = DefaultModels.Quality
	}

	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    base,
		models:     models,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *Client) Generate(ctx context.Context, prompt string, model llm.Model) (string, error) {
	modelID, err := c.models.Resolve(model)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(request{
		Model:      modelID,
		Input:      input{Messages: []message{{Role: roleUser, Content: prompt}}},
		Parameters: parameters{ResultFormat: resultFormat},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, status, err := c.doRequest(ctx, data)
	if err != nil {
		return "", err
	}

	return parseResponse(body, status)
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generationPath, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func parseResponse(body []byte, status int) (string, error) {
	var resp response
	decodeErr := json.Unmarshal(body, &resp)

	if status != http.StatusOK || resp.Code != "" {
		svcErr := &llm.ServiceError{
			Provider:   provider,
			RequestID:  resp.RequestID,
			StatusCode: status,
			Code:       resp.Code,
			Message:    resp.Message,
		}
		if decodeErr != nil {
			svcErr.Message = truncate(string(body), 300)
		}
		return "", svcErr
	}

	if decodeErr != nil {
		return "", &llm.ParseError{Raw: string(body), Err: decodeErr}
	}

	if len(resp.Output.Choices) > 0 {
		return resp.Output.Choices[0].Message.Content, nil
	}
	if resp.Output.Text != "" {
		return resp.Output.Text, nil
	}

	return "", &llm.ParseError{Raw: string(body), Err: errors.New("no response choices")}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
