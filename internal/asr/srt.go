package asr

import (
	"fmt"
	"math"
	"strings"
)

const DefaultLineWidth = 11

type TimecodeStyle string

const (
	// TimecodeStandard renders HH:MM:SS,mmm from milliseconds.
	TimecodeStandard TimecodeStyle = "standard"
	// TimecodeLegacy reproduces the older exporter: whole seconds only, a
	// constant ",00" fraction, and minutes that never roll over into hours.
	TimecodeLegacy TimecodeStyle = "legacy"
)

func ParseTimecodeStyle(s string) (TimecodeStyle, error) {
	switch TimecodeStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", TimecodeStandard:
		return TimecodeStandard, nil
	case TimecodeLegacy:
		return TimecodeLegacy, nil
	default:
		return "", fmt.Errorf("unknown timecode style %q", s)
	}
}

type SRTOptions struct {
	LineWidth int
	Timecode  TimecodeStyle
}

func (o SRTOptions) withDefaults() SRTOptions {
	if o.LineWidth <= 0 {
		o.LineWidth = DefaultLineWidth
	}
	if o.Timecode == "" {
		o.Timecode = TimecodeStandard
	}
	return o
}

// RenderSRT numbers cues with one counter across all channels, in channel
// then sentence order. Sentences without text are skipped.
func RenderSRT(res *Result, opts SRTOptions) (string, error) {
	if res == nil || res.Code != 0 {
		return "", ErrInvalidState
	}
	opts = opts.withDefaults()

	var sb strings.Builder
	index := 1

	for _, ch := range res.Channels {
		for _, s := range ch.Sentences {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}

			sb.WriteString(fmt.Sprintf("%d\n", index))
			sb.WriteString(fmt.Sprintf("%s --> %s\n",
				FormatTimecode(s.StartTime, opts.Timecode),
				FormatTimecode(s.EndTime, opts.Timecode)))
			sb.WriteString(strings.Join(WrapText(text, opts.LineWidth), "\n"))
			sb.WriteString("\n\n")
			index++
		}
	}

	return sb.String(), nil
}

func FormatTimecode(ms float64, style TimecodeStyle) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	if style == TimecodeLegacy {
		return formatLegacyTimecode(ms)
	}

	total := int64(math.Floor(ms))
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	seconds := (total % 60_000) / 1000
	millis := total % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatLegacyTimecode(ms float64) string {
	second := int64(math.Floor(ms)) / 1000
	hour := second / 3_600_000
	minute := (second - hour*3600) / 60
	sec := second - hour*3600 - minute*60

	return fmt.Sprintf("%02d:%02d:%02d,%02d", hour, minute, sec, 0)
}

// WrapText splits text into chunks of at most width runes.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = DefaultLineWidth
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	lines := make([]string, 0, (len(runes)+width-1)/width)
	for start := 0; start < len(runes); start += width {
		end := min(start+width, len(runes))
		lines = append(lines, string(runes[start:end]))
	}

	return lines
}
