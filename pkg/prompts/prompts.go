package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed defaults.yaml
var defaultPrompts []byte

type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "english":
		return English, nil
	case "zh", "cn", "chinese":
		return Chinese, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// Prompts holds one template set per language. Search terms are always
// requested in English and therefore share a single template.
type Prompts struct {
	Languages   map[Language]Templates `yaml:"languages"`
	SearchTerms string                 `yaml:"search_terms"`
}

type Templates struct {
	Script      string `yaml:"script"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type ScriptParams struct {
	Subject    string
	Paragraphs int
}

type SearchTermsParams struct {
	Subject string
	Amount  int
	Script  string
}

type MetadataParams struct {
	Subject string
	Script  string
}

func Default() (*Prompts, error) {
	return parse(defaultPrompts)
}

func Load() (*Prompts, error) {
	if _, err := os.Stat(defaultPromptsPath); err != nil {
		return Default()
	}
	return LoadFrom(defaultPromptsPath)
}

// LoadFrom reads a prompts file and fills anything it leaves out from the
// embedded defaults.
func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p, err := parse(data)
	if err != nil {
		return nil, err
	}

	defaults, err := Default()
	if err != nil {
		return nil, err
	}
	p.merge(defaults)

	return p, nil
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	if p.Languages == nil {
		p.Languages = make(map[Language]Templates)
	}
	return &p, nil
}

func (p *Prompts) merge(defaults *Prompts) {
	if p.SearchTerms == "" {
		p.SearchTerms = defaults.SearchTerms
	}
	for lang, def := range defaults.Languages {
		t := p.Languages[lang]
		if t.Script == "" {
			t.Script = def.Script
		}
		if t.Title == "" {
			t.Title = def.Title
		}
		if t.Description == "" {
			t.Description = def.Description
		}
		p.Languages[lang] = t
	}
}

func (p *Prompts) For(lang Language) (Templates, error) {
	t, ok := p.Languages[lang]
	if !ok {
		return Templates{}, fmt.Errorf("no prompts for language %q", lang)
	}
	return t, nil
}

func (p *Prompts) RenderScript(lang Language, params ScriptParams) (string, error) {
	t, err := p.For(lang)
	if err != nil {
		return "", err
	}
	return render(t.Script, params)
}

func (p *Prompts) RenderTitle(lang Language, params MetadataParams) (string, error) {
	t, err := p.For(lang)
	if err != nil {
		return "", err
	}
	return render(t.Title, params)
}

func (p *Prompts) RenderDescription(lang Language, params MetadataParams) (string, error) {
	t, err := p.For(lang)
	if err != nil {
		return "", err
	}
	return render(t.Description, params)
}

func (p *Prompts) RenderSearchTerms(params SearchTermsParams) (string, error) {
	return render(p.SearchTerms, params)
}

func render(tmpl string, data any) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", fmt.Errorf("empty template")
	}

	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
