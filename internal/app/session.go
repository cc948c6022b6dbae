package app

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// session groups the artifacts of one command run under a timestamped
// directory name.
type session struct {
	id  string
	dir string
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func newSession(now time.Time, subject string) *session {
	s := &session{id: now.Format("20060102_150405")}

	sanitized := sanitizeForPath(subject)
	if sanitized == "" {
		sanitized = "untitled"
	}
	if len(sanitized) > 50 {
		sanitized = strings.TrimRight(sanitized[:50], "_")
	}

	s.dir = fmt.Sprintf("%s_%s", s.id, sanitized)
	return s
}

func (s *session) scriptName() string    { return path.Join(s.dir, "script.txt") }
func (s *session) termsName() string     { return path.Join(s.dir, "search_terms.json") }
func (s *session) metadataName() string  { return path.Join(s.dir, "metadata.json") }
func (s *session) subtitlesName() string { return path.Join(s.dir, "subtitles.srt") }

func sanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func baseName(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
