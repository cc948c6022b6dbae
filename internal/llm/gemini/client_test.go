package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"shortsmith/internal/llm"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name: "singlePart",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello there"}}}},
				},
			},
			want: "Hello there",
		},
		{
			name: "multipleParts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{Text: "[\"a\", "}, {Text: "\"b\"]"}}}},
				},
			},
			want: `["a", "b"]`,
		},
		{
			name:    "noCandidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name: "nilContent",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			wantErr: true,
		},
		{
			name:    "nilResponse",
			resp:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)

			if tt.wantErr {
				var svcErr *llm.ServiceError
				if !errors.As(err, &svcErr) {
					t.Fatalf("responseText() error = %v, want *llm.ServiceError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("responseText() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("responseText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	got := withDefaults(llm.ModelIDs{Quality: "gemini-custom"})

	if got.Fast != DefaultModels.Fast {
		t.Errorf("Fast = %q, want %q", got.Fast, DefaultModels.Fast)
	}
	if got.Quality != "gemini-custom" {
		t.Errorf("Quality = %q, want gemini-custom", got.Quality)
	}
}
