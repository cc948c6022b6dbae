package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Cleanup is best-effort pattern removal, not a markdown parser. Bracket
// patterns are greedy within a line.
var (
	markdownMarkers = strings.NewReplacer("*", "", "#", "")
	annotationSpans = []*regexp.Regexp{
		regexp.MustCompile(`\[.*\]`),
		regexp.MustCompile(`\(.*\)`),
		regexp.MustCompile(`（.*）`),
		regexp.MustCompile(`【.*】`),
	}
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

	stringArray = regexp.MustCompile(`\[\s*"(?:[^"\\]|\\.)*"(?:\s*,\s*"(?:[^"\\]|\\.)*")*\s*\]`)

	errNotStringList = errors.New("response is not a list of strings")
)

// CleanScript strips markdown markers and bracketed asides from raw model
// output and keeps at most n non-empty paragraphs.
func CleanScript(raw string, n int) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = markdownMarkers.Replace(text)
	for _, re := range annotationSpans {
		text = re.ReplaceAllString(text, "")
	}

	paragraphs := make([]string, 0, n)
	for _, p := range paragraphBreak.Split(text, -1) {
		if len(paragraphs) >= n {
			break
		}
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}

	return strings.Join(paragraphs, "\n\n")
}

func countParagraphs(script string) int {
	if script == "" {
		return 0
	}
	return len(strings.Split(script, "\n\n"))
}

// ParseSearchTerms decodes a JSON array of strings, falling back to the first
// string array embedded in surrounding prose.
func ParseSearchTerms(raw string) ([]string, error) {
	terms, err := decodeStringArray(strings.TrimSpace(raw))
	if err == nil {
		return terms, nil
	}

	match := stringArray.FindString(raw)
	if match == "" {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	terms, err = decodeStringArray(match)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return terms, nil
}

// decodeStringArray rejects null elements instead of decoding them as "".
func decodeStringArray(s string) ([]string, error) {
	var items []*string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, errNotStringList
	}

	terms := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			return nil, errNotStringList
		}
		terms = append(terms, *item)
	}
	return terms, nil
}
