package asr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Transcriber keeps the most recent successful result for export. It is not
// safe for concurrent use; callers needing parallelism should create one
// Transcriber per job.
type Transcriber struct {
	recognizer Recognizer
	opts       Options
	srt        SRTOptions
	result     *Result
}

func NewTranscriber(r Recognizer, opts Options, srt SRTOptions) *Transcriber {
	return &Transcriber{
		recognizer: r,
		opts:       opts,
		srt:        srt.withDefaults(),
	}
}

// Recognize submits audio and stores the parsed result. Any failure clears
// the previously stored result.
func (t *Transcriber) Recognize(ctx context.Context, audio []byte) (*Result, error) {
	t.result = nil

	if len(audio) == 0 {
		return nil, &RecognitionError{Err: errors.New("empty audio")}
	}

	body, err := t.recognizer.Recognize(ctx, audio, t.opts)
	if err != nil {
		var recErr *RecognitionError
		if errors.As(err, &recErr) {
			return nil, err
		}
		return nil, &RecognitionError{Err: err}
	}

	res, err := parseResult(body)
	if err != nil {
		return nil, err
	}

	slog.Info("Recognition complete",
		"request_id", res.RequestID,
		"channels", len(res.Channels),
		"sentences", res.SentenceCount(),
	)

	t.result = res
	return res, nil
}

func (t *Transcriber) RecognizeFile(ctx context.Context, path string) (*Result, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return t.Recognize(ctx, audio)
}

// Result returns the most recent successful result, or nil.
func (t *Transcriber) Result() *Result {
	return t.result
}

// ExportSRT renders the last successful result. Blank sentences get no cue, so
// the cue count can be lower than Result.SentenceCount.
func (t *Transcriber) ExportSRT() (string, error) {
	if t.result == nil {
		return "", ErrInvalidState
	}
	return RenderSRT(t.result, t.srt)
}

func parseResult(body []byte) (*Result, error) {
	if len(body) == 0 {
		return nil, &RecognitionError{Err: errors.New("empty response")}
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &RecognitionError{Err: fmt.Errorf("parse response: %w", err)}
	}

	if res.Code != 0 {
		return nil, &RecognitionError{
			RequestID: res.RequestID,
			Code:      res.Code,
			Message:   res.Message,
		}
	}

	return &res, nil
}
