package dashscope

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shortsmith/internal/llm"
)

func successBody(content string) string {
	return `{"request_id":"req-ok","output":{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":` +
		mustJSON(content) + `}}]},"usage":{"input_tokens":10,"output_tokens":5,"total_tokens":15}}`
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func newTestClient(serverURL string, client *http.Client) *Client {
	return NewClient("test-api-key", Options{BaseURL: serverURL + "/"}, withHTTPClient(client))
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		responseBody  string
		want          string
		wantService   bool
		wantRequestID string
		wantCode      string
		wantParse     bool
	}{
		{
			name:         "success",
			statusCode:   http.StatusOK,
			responseBody: successBody("The ocean covers most of the planet."),
			want:         "The ocean covers most of the planet.",
		},
		{
			name:         "legacyTextFormat",
			statusCode:   http.StatusOK,
			responseBody: `{"request_id":"req-t","output":{"text":"plain text reply","finish_reason":"stop"}}`,
			want:         "plain text reply",
		},
		{
			name:          "invalidAPIKey",
			statusCode:    http.StatusUnauthorized,
			responseBody:  `{"code":"InvalidApiKey","message":"Invalid API-key provided.","request_id":"req-401"}`,
			wantService:   true,
			wantRequestID: "req-401",
			wantCode:      "InvalidApiKey",
		},
		{
			name:          "throttled",
			statusCode:    http.StatusTooManyRequests,
			responseBody:  `{"code":"Throttling.RateQuota","message":"Requests rate limit exceeded","request_id":"req-429"}`,
			wantService:   true,
			wantRequestID: "req-429",
			wantCode:      "Throttling.RateQuota",
		},
		{
			name:         "nonJSONError",
			statusCode:   http.StatusBadGateway,
			responseBody: `<html>bad gateway</html>`,
			wantService:  true,
		},
		{
			name:         "noChoices",
			statusCode:   http.StatusOK,
			responseBody: `{"request_id":"req-empty","output":{"choices":[]}}`,
			wantParse:    true,
		},
		{
			name:         "malformedBody",
			statusCode:   http.StatusOK,
			responseBody: `{"output":`,
			wantParse:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := newTestClient(server.URL, server.Client())
			got, err := client.Generate(context.Background(), "prompt", llm.ModelFast)

			switch {
			case tt.wantService:
				var svcErr *llm.ServiceError
				if !errors.As(err, &svcErr) {
					t.Fatalf("Generate() error = %v, want *llm.ServiceError", err)
				}
				if svcErr.StatusCode != tt.statusCode {
					t.Errorf("StatusCode = %d, want %d", svcErr.StatusCode, tt.statusCode)
				}
				if svcErr.RequestID != tt.wantRequestID {
					t.Errorf("RequestID = %q, want %q", svcErr.RequestID, tt.wantRequestID)
				}
				if svcErr.Code != tt.wantCode {
					t.Errorf("Code = %q, want %q", svcErr.Code, tt.wantCode)
				}
				if svcErr.Provider != provider {
					t.Errorf("Provider = %q, want %q", svcErr.Provider, provider)
				}
			case tt.wantParse:
				var parseErr *llm.ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("Generate() error = %v, want *llm.ParseError", err)
				}
			default:
				if err != nil {
					t.Fatalf("Generate() unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("Generate() = %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestGenerateRequest(t *testing.T) {
	tests := []struct {
		name      string
		model     llm.Model
		wantModel string
	}{
		{name: "fastTier", model: llm.ModelFast, wantModel: "qwen-turbo"},
		{name: "qualityTier", model: llm.ModelQuality, wantModel: "qwen-max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received request

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/services/aigc/text-generation/generation" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if auth := r.Header.Get("Authorization"); auth != "Bearer test-api-key" {
					t.Errorf("Authorization = %q, want Bearer test-api-key", auth)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
				if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
					t.Errorf("failed to decode request body: %v", err)
				}
				_, _ = w.Write([]byte(successBody("ok")))
			}))
			defer server.Close()

			client := newTestClient(server.URL, server.Client())
			if _, err := client.Generate(context.Background(), "write a haiku", tt.model); err != nil {
				t.Fatalf("Generate() error: %v", err)
			}

			if received.Model != tt.wantModel {
				t.Errorf("model = %q, want %q", received.Model, tt.wantModel)
			}
			if received.Parameters.ResultFormat != "message" {
				t.Errorf("result_format = %q, want message", received.Parameters.ResultFormat)
			}
			if len(received.Input.Messages) != 1 {
				t.Fatalf("got %d messages, want 1", len(received.Input.Messages))
			}
			msg := received.Input.Messages[0]
			if msg.Role != "user" || msg.Content != "write a haiku" {
				t.Errorf("message = %+v", msg)
			}
		})
	}
}

func TestGenerateUnknownModel(t *testing.T) {
	client := NewClient("key", Options{})

	_, err := client.Generate(context.Background(), "prompt", llm.Model("ultra"))

	var cfgErr *llm.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Generate() error = %v, want *llm.ConfigError", err)
	}
}

func TestCustomModels(t *testing.T) {
	client := NewClient("key", Options{Models: llm.ModelIDs{Fast: "qwen-plus"}})

	if client.models.Fast != "qwen-plus" {
		t.Errorf("Fast = %q, want qwen-plus", client.models.Fast)
	}
	if client.models.Quality != DefaultModels.Quality {
		t.Errorf("Quality = %q, want default %q", client.models.Quality, DefaultModels.Quality)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Generate(ctx, "prompt", llm.ModelFast); err == nil {
		t.Error("expected error due to cancelled context, got nil")
	}
}
