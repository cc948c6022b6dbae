package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"shortsmith/internal/asr"
	"shortsmith/internal/asr/tencent"
	"shortsmith/internal/llm"
	"shortsmith/internal/llm/dashscope"
	"shortsmith/internal/llm/gemini"
	"shortsmith/internal/llm/groq"
	"shortsmith/internal/storage"
	"shortsmith/pkg/config"
	"shortsmith/pkg/prompts"
)

var ErrMissingCredentials = errors.New("missing credentials")

type BuildResult struct {
	Service *Service
	closers []io.Closer
}

func (r *BuildResult) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func BuildService(ctx context.Context, cfg *config.Config) (*BuildResult, error) {
	result := &BuildResult{}

	p, err := loadPrompts(cfg.LLM.PromptsPath)
	if err != nil {
		return nil, err
	}

	lang, err := prompts.ParseLanguage(cfg.LLM.Language)
	if err != nil {
		return nil, err
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	adapter, err := llm.NewAdapter(gen, p, lang)
	if err != nil {
		return nil, err
	}

	transcriber, err := newTranscriber(cfg)
	if err != nil {
		return nil, err
	}

	store, closer, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		result.closers = append(result.closers, closer)
	}

	result.Service = NewService(ServiceOptions{
		Config:      cfg,
		LLM:         adapter,
		Transcriber: transcriber,
		Storage:     store,
	})

	return result, nil
}

func loadPrompts(path string) (*prompts.Prompts, error) {
	if path != "" {
		return prompts.LoadFrom(path)
	}
	return prompts.Load()
}

func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	slog.Debug("Using LLM provider", "provider", cfg.LLM.Provider, "language", cfg.LLM.Language)

	switch cfg.LLM.Provider {
	case "dashscope":
		if cfg.DashScopeAPIKey == "" {
			return nil, fmt.Errorf("%w: DASHSCOPE_API_KEY is not set", ErrMissingCredentials)
		}
		return dashscope.NewClient(cfg.DashScopeAPIKey, dashscope.Options{
			BaseURL: cfg.DashScope.BaseURL,
			Models:  cfg.DashScope.Models(),
		}), nil

	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("%w: GROQ_API_KEY is not set", ErrMissingCredentials)
		}
		return groq.NewClient(cfg.GroqAPIKey, groq.Options{
			BaseURL: cfg.Groq.BaseURL,
			Models:  cfg.Groq.Models(),
		})

	case "gemini":
		if cfg.GeminiAPIKey == "" && cfg.GCPProject == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT is required", ErrMissingCredentials)
		}
		return gemini.NewClient(ctx, gemini.Options{
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GCPProject,
			Location: cfg.Gemini.Location,
			Models:   cfg.Gemini.Models(),
		})

	default:
		return nil, &llm.ConfigError{Field: "llm.provider", Value: cfg.LLM.Provider}
	}
}

// newTranscriber returns nil when Tencent credentials are absent; only the
// transcribe command needs them.
func newTranscriber(cfg *config.Config) (*asr.Transcriber, error) {
	if cfg.TencentAppID == "" || cfg.TencentSecretID == "" || cfg.TencentSecretKey == "" {
		slog.Debug("Tencent credentials not set, transcription disabled")
		return nil, nil
	}

	timecode, err := asr.ParseTimecodeStyle(cfg.ASR.Timecode)
	if err != nil {
		return nil, err
	}

	var opts []tencent.Option
	if cfg.ASR.BaseURL != "" {
		opts = append(opts, tencent.WithBaseURL(cfg.ASR.BaseURL))
	}

	client := tencent.NewClient(cfg.TencentAppID, cfg.TencentSecretID, cfg.TencentSecretKey, opts...)

	return asr.NewTranscriber(client,
		asr.DefaultOptions(cfg.ASR.EngineType, cfg.ASR.VoiceFormat),
		asr.SRTOptions{LineWidth: cfg.ASR.LineWidth, Timecode: timecode},
	), nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.ArtifactStore, io.Closer, error) {
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.Output.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Saving artifacts to GCS", "bucket", cfg.GCSBucket, "prefix", cfg.Output.GCSPrefix)
		return gcs, gcs, nil
	}

	local := storage.NewLocalStorage(cfg.Output.Dir)
	if err := local.EnsureDirectories(); err != nil {
		return nil, nil, err
	}
	return local, nil, nil
}
