package asr

import "context"

// Options are the recognition flags sent with every request.
type Options struct {
	EngineType     string
	VoiceFormat    string
	FilterDirty    int
	FilterModal    int
	FilterPunc     int
	ConvertNumMode int
	WordInfo       int
}

// DefaultOptions filters profanity, filler words and punctuation, normalizes
// numerals and requests word-level timing.
func DefaultOptions(engineType, voiceFormat string) Options {
	return Options{
		EngineType:     engineType,
		VoiceFormat:    voiceFormat,
		FilterDirty:    1,
		FilterModal:    1,
		FilterPunc:     1,
		ConvertNumMode: 1,
		WordInfo:       3,
	}
}

// Recognizer submits audio and returns the raw JSON envelope.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, opts Options) ([]byte, error)
}

type Result struct {
	RequestID     string    `json:"request_id"`
	Code          int       `json:"code"`
	Message       string    `json:"message"`
	AudioDuration int64     `json:"audio_duration"`
	Channels      []Channel `json:"flash_result"`
}

type Channel struct {
	ChannelID int        `json:"channel_id"`
	Text      string     `json:"text"`
	Sentences []Sentence `json:"sentence_list"`
}

// Sentence times are milliseconds from the start of the audio.
type Sentence struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	SpeakerID int     `json:"speaker_id"`
	Words     []Word  `json:"word_list"`
}

type Word struct {
	Word      string  `json:"word"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func (r *Result) SentenceCount() int {
	n := 0
	for _, ch := range r.Channels {
		n += len(ch.Sentences)
	}
	return n
}
