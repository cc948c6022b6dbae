package llm

import (
	"context"
	"strings"
)

// Model selects the quality tier of a generation request. Backends map each
// tier to a concrete model id.
type Model string

const (
	ModelFast    Model = "fast"
	ModelQuality Model = "high-quality"
)

func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "turbo", "qwen-turbo":
		return ModelFast, nil
	case "high-quality", "quality", "max", "qwen-max":
		return ModelQuality, nil
	default:
		return "", &ConfigError{Field: "model", Value: s}
	}
}

// ModelIDs maps the two tiers to provider model ids.
type ModelIDs struct {
	Fast    string
	Quality string
}

func (m ModelIDs) Resolve(model Model) (string, error) {
	switch model {
	case ModelFast:
		return m.Fast, nil
	case ModelQuality:
		return m.Quality, nil
	default:
		return "", &ConfigError{Field: "model", Value: string(model)}
	}
}

// Generator sends a single-turn chat request and returns the reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string, model Model) (string, error)
}

type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}
