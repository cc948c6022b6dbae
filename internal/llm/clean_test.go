package llm

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestCleanScriptStripsMarkup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "emphasisMarkers",
			raw:  "**Bold** opening line.\n\n## Heading text",
			want: "Bold opening line.\n\nHeading text",
		},
		{
			name: "bracketedAside",
			raw:  "[Intro music] The ocean is deep.",
			want: "The ocean is deep.",
		},
		{
			name: "parenthesizedAside",
			raw:  "Whales sing (softly) for hours.",
			want: "Whales sing  for hours.",
		},
		{
			name: "greedyWithinLine",
			raw:  "A (one) b (two) c",
			want: "A  c",
		},
		{
			name: "fullWidthParentheses",
			raw:  "冥想有助于睡眠（背景音乐）。",
			want: "冥想有助于睡眠。",
		},
		{
			name: "bracketOnlyParagraphDropped",
			raw:  "[Scene 1]\n\nFirst.\n\nSecond.",
			want: "First.\n\nSecond.",
		},
		{
			name: "windowsLineEndings",
			raw:  "One.\r\n\r\nTwo.",
			want: "One.\n\nTwo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanScript(tt.raw, 10)
			if got != tt.want {
				t.Errorf("CleanScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanScriptRemovesAllMarkers(t *testing.T) {
	raw := "# Title\n\n*Narrator:* [pause] Space (the final frontier) is **vast**.\n\n" +
		"### Part two\n\nStars [citation needed] burn (for billions of years) bright.#"

	got := CleanScript(raw, 10)

	if strings.ContainsAny(got, "*#") {
		t.Errorf("CleanScript() left markdown markers: %q", got)
	}
	for _, pattern := range []string{`\[.*\]`, `\(.*\)`} {
		if regexp.MustCompile(pattern).MatchString(got) {
			t.Errorf("CleanScript() left span matching %s: %q", pattern, got)
		}
	}
}

func TestCleanScriptParagraphCount(t *testing.T) {
	raw := "One.\n\nTwo.\n\nThree.\n\nFour."

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "fewerThanAvailable", n: 2, want: 2},
		{name: "exactlyAvailable", n: 4, want: 4},
		{name: "moreThanAvailable", n: 7, want: 4},
		{name: "single", n: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanScript(raw, tt.n)
			if count := countParagraphs(got); count != tt.want {
				t.Errorf("CleanScript(n=%d) has %d paragraphs, want %d: %q", tt.n, count, tt.want, got)
			}
		})
	}
}

func TestCleanScriptKeepsOrder(t *testing.T) {
	got := CleanScript("Alpha.\n\n  \n\nBeta.\n\nGamma.", 2)
	if got != "Alpha.\n\nBeta." {
		t.Errorf("CleanScript() = %q, want %q", got, "Alpha.\n\nBeta.")
	}
}

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "wellFormedArray",
			raw:  `["ocean waves", "deep sea", "whale"]`,
			want: []string{"ocean waves", "deep sea", "whale"},
		},
		{
			name: "surroundingWhitespace",
			raw:  "\n  [\"a\", \"b\"]  \n",
			want: []string{"a", "b"},
		},
		{
			name: "embeddedInProse",
			raw:  `Sure! Here are your terms: ["city night", "neon lights"] Hope this helps.`,
			want: []string{"city night", "neon lights"},
		},
		{
			name: "fencedCodeBlock",
			raw:  "```json\n[\n  \"mountain\",\n  \"snow peak\"\n]\n```",
			want: []string{"mountain", "snow peak"},
		},
		{
			name: "escapedQuotes",
			raw:  `terms: ["say \"hi\"", "wave"]`,
			want: []string{`say "hi"`, "wave"},
		},
		{
			name: "emptyArray",
			raw:  `[]`,
			want: []string{},
		},
		{
			name:    "objectNotArray",
			raw:     `{"terms": 3}`,
			wantErr: true,
		},
		{
			name:    "arrayOfNumbers",
			raw:     `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name:    "arrayWithNull",
			raw:     `["ocean", null, "whale"]`,
			wantErr: true,
		},
		{
			name:    "mixedTypes",
			raw:     `["a", 1]`,
			wantErr: true,
		},
		{
			name:    "proseWithNullElement",
			raw:     `Terms: ["ocean", null] done`,
			wantErr: true,
		},
		{
			name:    "nullLiteral",
			raw:     `null`,
			wantErr: true,
		},
		{
			name:    "noArrayAtAll",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchTerms(tt.raw)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSearchTerms() = %v, want error", got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("ParseSearchTerms() error = %T, want *ParseError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseSearchTerms() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSearchTerms() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		input   string
		want    Model
		wantErr bool
	}{
		{"fast", ModelFast, false},
		{"qwen-turbo", ModelFast, false},
		{"high-quality", ModelQuality, false},
		{"QWEN-MAX", ModelQuality, false},
		{"gpt-4", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModel(tt.input)
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("ParseModel(%q) error = %v, want *ConfigError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseModel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModelIDsResolve(t *testing.T) {
	ids := ModelIDs{Fast: "qwen-turbo", Quality: "qwen-max"}

	if got, _ := ids.Resolve(ModelFast); got != "qwen-turbo" {
		t.Errorf("Resolve(fast) = %q, want qwen-turbo", got)
	}
	if got, _ := ids.Resolve(ModelQuality); got != "qwen-max" {
		t.Errorf("Resolve(quality) = %q, want qwen-max", got)
	}
	if _, err := ids.Resolve(Model("ultra")); err == nil {
		t.Error("Resolve(ultra) expected error")
	}
}
