package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shortsmith/internal/llm"
)

var ErrTranscriptionDisabled = errors.New("transcription is not configured: set TENCENT_APP_ID, TENCENT_SECRET_ID and TENCENT_SECRET_KEY")

type Pipeline struct {
	service *Service
	now     func() time.Time
}

type ScriptResult struct {
	Script string
	Path   string
}

type SearchTermsResult struct {
	Terms []string
	Path  string
}

type MetadataResult struct {
	Metadata *llm.Metadata
	Path     string
}

type TranscribeResult struct {
	RequestID string
	Sentences int
	SRT       string
	Path      string
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service, now: time.Now}
}

// Model resolves a tier name, falling back to the configured tier when name
// is empty.
func (p *Pipeline) Model(name string) (llm.Model, error) {
	if name == "" {
		name = p.service.Config().LLM.Model
	}
	return llm.ParseModel(name)
}

// Script uses the configured paragraph count when paragraphs is 0.
func (p *Pipeline) Script(ctx context.Context, subject string, paragraphs int, model llm.Model) (*ScriptResult, error) {
	if paragraphs == 0 {
		paragraphs = p.service.Config().Content.Paragraphs
	}
	slog.Info("Generating script...", "subject", subject, "paragraphs", paragraphs, "model", model)

	script, err := p.service.LLM().GenerateScript(ctx, subject, paragraphs, model)
	if err != nil {
		return nil, err
	}

	path, err := p.save(ctx, newSession(p.now(), subject).scriptName(), []byte(script))
	if err != nil {
		return nil, err
	}

	return &ScriptResult{Script: script, Path: path}, nil
}

// SearchTerms never fails on generation; an empty list is a valid result.
// An amount of 0 uses the configured amount.
func (p *Pipeline) SearchTerms(ctx context.Context, subject string, amount int, script string, model llm.Model) (*SearchTermsResult, error) {
	if amount == 0 {
		amount = p.service.Config().Content.SearchAmount
	}
	slog.Info("Generating search terms...", "subject", subject, "amount", amount)

	terms := p.service.LLM().GenerateSearchTerms(ctx, subject, amount, script, model)
	if len(terms) == 0 {
		slog.Warn("No search terms generated", "subject", subject)
	}

	data, err := json.MarshalIndent(terms, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal search terms: %w", err)
	}

	path, err := p.save(ctx, newSession(p.now(), subject).termsName(), data)
	if err != nil {
		return nil, err
	}

	return &SearchTermsResult{Terms: terms, Path: path}, nil
}

// Metadata saves whatever fields were generated. A partial failure returns
// the result together with the generation error.
func (p *Pipeline) Metadata(ctx context.Context, subject, script string, model llm.Model) (*MetadataResult, error) {
	slog.Info("Generating metadata...", "subject", subject)

	meta, genErr := p.service.LLM().GenerateMetadata(ctx, subject, script, model)
	if genErr != nil {
		slog.Warn("Metadata incomplete", "error", genErr)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	path, err := p.save(ctx, newSession(p.now(), subject).metadataName(), data)
	if err != nil {
		return nil, errors.Join(genErr, err)
	}

	return &MetadataResult{Metadata: meta, Path: path}, genErr
}

func (p *Pipeline) Transcribe(ctx context.Context, audioPath string) (*TranscribeResult, error) {
	tr := p.service.Transcriber()
	if tr == nil {
		return nil, ErrTranscriptionDisabled
	}

	slog.Info("Transcribing audio...", "path", audioPath)

	res, err := tr.RecognizeFile(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	srt, err := tr.ExportSRT()
	if err != nil {
		return nil, err
	}

	path, err := p.save(ctx, newSession(p.now(), baseName(audioPath)).subtitlesName(), []byte(srt))
	if err != nil {
		return nil, err
	}

	return &TranscribeResult{
		RequestID: res.RequestID,
		Sentences: res.SentenceCount(),
		SRT:       srt,
		Path:      path,
	}, nil
}

// Artifacts lists saved artifact names under prefix, for example one session
// directory. An empty prefix lists everything.
func (p *Pipeline) Artifacts(ctx context.Context, prefix string) ([]string, error) {
	names, err := p.service.Storage().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	prefix = strings.TrimPrefix(prefix, "/")
	matched := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

func (p *Pipeline) save(ctx context.Context, name string, data []byte) (string, error) {
	path, err := p.service.Storage().Save(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	slog.Debug("Saved artifact", "path", path, "bytes", len(data))
	return path, nil
}
