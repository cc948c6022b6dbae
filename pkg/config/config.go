package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"shortsmith/internal/asr"
	"shortsmith/internal/llm"
	"shortsmith/pkg/prompts"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultProvider      = "dashscope"
	defaultLanguage      = "en"
	defaultModel         = "fast"
	defaultEngineType    = "16k_zh"
	defaultVoiceFormat   = "mp3"
	defaultOutputDir     = "./output"
	defaultGCSPrefix     = "shortsmith"
	defaultParagraphs    = 1
	defaultSearchAmount  = 5
	defaultGeminiRegion  = "us-central1"
	defaultTimecodeStyle = "standard"
)

var providers = map[string]bool{
	"dashscope": true,
	"groq":      true,
	"gemini":    true,
}

type Config struct {
	DashScopeAPIKey  string `yaml:"-"`
	GroqAPIKey       string `yaml:"-"`
	GeminiAPIKey     string `yaml:"-"`
	TencentAppID     string `yaml:"-"`
	TencentSecretID  string `yaml:"-"`
	TencentSecretKey string `yaml:"-"`
	GCPProject       string `yaml:"-"`
	GCSBucket        string `yaml:"-"`

	LLM       LLMConfig      `yaml:"llm"`
	DashScope ProviderConfig `yaml:"dashscope"`
	Groq      ProviderConfig `yaml:"groq"`
	Gemini    GeminiConfig   `yaml:"gemini"`
	ASR       ASRConfig      `yaml:"asr"`
	Content   ContentConfig  `yaml:"content"`
	Output    OutputConfig   `yaml:"output"`
	Secrets   SecretsConfig  `yaml:"secrets"`
}

type LLMConfig struct {
	Provider    string `yaml:"provider"`
	Language    string `yaml:"language"`
	Model       string `yaml:"model"`
	PromptsPath string `yaml:"prompts_path"`
}

// ProviderConfig holds the model ids behind the fast and high-quality tiers.
type ProviderConfig struct {
	BaseURL      string `yaml:"base_url"`
	FastModel    string `yaml:"fast_model"`
	QualityModel string `yaml:"quality_model"`
}

func (p ProviderConfig) Models() llm.ModelIDs {
	return llm.ModelIDs{Fast: p.FastModel, Quality: p.QualityModel}
}

type GeminiConfig struct {
	ProviderConfig `yaml:",inline"`
	Location       string `yaml:"location"`
}

type ASRConfig struct {
	EngineType  string `yaml:"engine_type"`
	VoiceFormat string `yaml:"voice_format"`
	BaseURL     string `yaml:"base_url"`
	LineWidth   int    `yaml:"line_width"`
	Timecode    string `yaml:"timecode"`
}

type ContentConfig struct {
	Paragraphs   int `yaml:"paragraphs"`
	SearchAmount int `yaml:"search_amount"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	GCSPrefix string `yaml:"gcs_prefix"`
}

type SecretsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FieldError reports an invalid setting outside the LLM section.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, defaultConfigPath)
}

func LoadFrom(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		DashScopeAPIKey:  os.Getenv("DASHSCOPE_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		TencentAppID:     os.Getenv("TENCENT_APP_ID"),
		TencentSecretID:  os.Getenv("TENCENT_SECRET_ID"),
		TencentSecretKey: os.Getenv("TENCENT_SECRET_KEY"),
		GCPProject:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
	}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if cfg.Secrets.Enabled {
		if err := loadSecrets(ctx, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func loadSecrets(ctx context.Context, cfg *Config) error {
	if cfg.GCPProject == "" {
		slog.Warn("Secret Manager enabled but GOOGLE_CLOUD_PROJECT is not set")
		return nil
	}

	accessor, err := NewSecretManager(ctx, cfg.GCPProject)
	if err != nil {
		return err
	}
	defer func() { _ = accessor.Close() }()

	return fillSecrets(ctx, cfg, accessor)
}

// Validate rejects unknown providers, languages, model aliases and subtitle
// settings.
func (c *Config) Validate() error {
	var errs []error

	if !providers[c.LLM.Provider] {
		errs = append(errs, &llm.ConfigError{Field: "llm.provider", Value: c.LLM.Provider})
	}
	if _, err := prompts.ParseLanguage(c.LLM.Language); err != nil {
		errs = append(errs, &llm.ConfigError{Field: "llm.language", Value: c.LLM.Language})
	}
	if _, err := llm.ParseModel(c.LLM.Model); err != nil {
		errs = append(errs, err)
	}
	if _, err := asr.ParseTimecodeStyle(c.ASR.Timecode); err != nil {
		errs = append(errs, &FieldError{Field: "asr.timecode", Value: c.ASR.Timecode})
	}
	if c.ASR.LineWidth <= 0 {
		errs = append(errs, &FieldError{Field: "asr.line_width", Value: fmt.Sprint(c.ASR.LineWidth)})
	}

	return errors.Join(errs...)
}

func applyDefaults(cfg *Config) {
	applyLLMDefaults(cfg)
	applyGeminiDefaults(cfg)
	applyASRDefaults(cfg)
	applyContentDefaults(cfg)
	applyOutputDefaults(cfg)
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultProvider
	}
	if cfg.LLM.Language == "" {
		cfg.LLM.Language = defaultLanguage
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Location == "" {
		cfg.Gemini.Location = defaultGeminiRegion
	}
}

func applyASRDefaults(cfg *Config) {
	if cfg.ASR.EngineType == "" {
		cfg.ASR.EngineType = defaultEngineType
	}
	if cfg.ASR.VoiceFormat == "" {
		cfg.ASR.VoiceFormat = defaultVoiceFormat
	}
	if cfg.ASR.LineWidth == 0 {
		cfg.ASR.LineWidth = asr.DefaultLineWidth
	}
	if cfg.ASR.Timecode == "" {
		cfg.ASR.Timecode = defaultTimecodeStyle
	}
}

func applyContentDefaults(cfg *Config) {
	if cfg.Content.Paragraphs == 0 {
		cfg.Content.Paragraphs = defaultParagraphs
	}
	if cfg.Content.SearchAmount == 0 {
		cfg.Content.SearchAmount = defaultSearchAmount
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Output.GCSPrefix == "" {
		cfg.Output.GCSPrefix = defaultGCSPrefix
	}
}
