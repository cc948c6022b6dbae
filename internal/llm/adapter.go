package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shortsmith/pkg/prompts"
)

const metadataKeywordCount = 6

// Adapter turns raw generator replies into scripts, search terms and video
// metadata. It holds no per-call state.
type Adapter struct {
	gen      Generator
	prompts  *prompts.Prompts
	language prompts.Language
}

func NewAdapter(gen Generator, p *prompts.Prompts, lang prompts.Language) (*Adapter, error) {
	if gen == nil {
		return nil, errors.New("nil generator")
	}
	if p == nil {
		return nil, errors.New("nil prompts")
	}
	if _, err := p.For(lang); err != nil {
		return nil, &ConfigError{Field: "language", Value: string(lang)}
	}

	return &Adapter{
		gen:      gen,
		prompts:  p,
		language: lang,
	}, nil
}

func (a *Adapter) Language() prompts.Language {
	return a.language
}

// GenerateRaw returns the reply text, or "" and the failure. Service errors
// are logged with their diagnostics before being returned.
func (a *Adapter) GenerateRaw(ctx context.Context, prompt string, model Model) (string, error) {
	content, err := a.gen.Generate(ctx, prompt, model)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			slog.Error("LLM request failed",
				"provider", svcErr.Provider,
				"request_id", svcErr.RequestID,
				"status", svcErr.StatusCode,
				"code", svcErr.Code,
				"message", svcErr.Message,
			)
		} else {
			slog.Error("LLM request failed", "error", err)
		}
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

func (a *Adapter) GenerateScript(ctx context.Context, subject string, paragraphs int, model Model) (string, error) {
	if paragraphs <= 0 {
		return "", fmt.Errorf("paragraph count must be positive, got %d", paragraphs)
	}

	prompt, err := a.prompts.RenderScript(a.language, prompts.ScriptParams{
		Subject:    subject,
		Paragraphs: paragraphs,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	raw, err := a.GenerateRaw(ctx, prompt, model)
	if err != nil {
		return "", fmt.Errorf("generate script: %w", err)
	}

	slog.Debug("LLM script raw response", "content", raw)

	script := CleanScript(raw, paragraphs)
	if script == "" {
		return "", fmt.Errorf("generate script: %w", ErrEmptyResponse)
	}

	slog.Info("Script generated", "paragraphs", countParagraphs(script), "requested", paragraphs)
	return script, nil
}

// GenerateSearchTerms never fails: service and parse failures are logged and
// yield an empty slice.
func (a *Adapter) GenerateSearchTerms(ctx context.Context, subject string, amount int, script string, model Model) []string {
	prompt, err := a.prompts.RenderSearchTerms(prompts.SearchTermsParams{
		Subject: subject,
		Amount:  amount,
		Script:  script,
	})
	if err != nil {
		slog.Error("Failed to render search terms prompt", "error", err)
		return []string{}
	}

	raw, err := a.GenerateRaw(ctx, prompt, model)
	if err != nil {
		return []string{}
	}

	terms, err := ParseSearchTerms(raw)
	if err != nil {
		slog.Warn("Could not parse search terms", "error", err, "content", raw)
		return []string{}
	}

	if amount > 0 && len(terms) > amount {
		terms = terms[:amount]
	}

	slog.Info("Search terms generated", "count", len(terms), "terms", strings.Join(terms, ", "))
	return terms
}

// GenerateMetadata issues the title, description and keyword requests
// independently. The result is never nil; fields whose request failed are
// left empty and the failures are joined into the returned error.
func (a *Adapter) GenerateMetadata(ctx context.Context, subject, script string, model Model) (*Metadata, error) {
	params := prompts.MetadataParams{Subject: subject, Script: script}
	meta := &Metadata{}
	var errs []error

	title, err := a.generateField(ctx, model, func() (string, error) {
		return a.prompts.RenderTitle(a.language, params)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("title: %w", err))
	}
	meta.Title = cleanTitle(title)

	description, err := a.generateField(ctx, model, func() (string, error) {
		return a.prompts.RenderDescription(a.language, params)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("description: %w", err))
	}
	meta.Description = strings.TrimSpace(description)

	meta.Keywords = a.GenerateSearchTerms(ctx, subject, metadataKeywordCount, script, model)

	return meta, errors.Join(errs...)
}

func (a *Adapter) generateField(ctx context.Context, model Model, renderPrompt func() (string, error)) (string, error) {
	prompt, err := renderPrompt()
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return a.GenerateRaw(ctx, prompt, model)
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'“”")
	return strings.TrimSpace(title)
}
