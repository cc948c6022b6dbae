package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRecognizer struct {
	body  []byte
	err   error
	calls int
	opts  Options
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, opts Options) ([]byte, error) {
	f.calls++
	f.opts = opts
	return f.body, f.err
}

const successBody = `{
	"request_id": "req-ok",
	"code": 0,
	"message": "success",
	"audio_duration": 3000,
	"flash_result": [{
		"channel_id": 0,
		"text": "hello world goodbye",
		"sentence_list": [
			{"text": "hello world", "start_time": 0, "end_time": 1500, "speaker_id": 0},
			{"text": "goodbye", "start_time": 1500, "end_time": 3000, "speaker_id": 0}
		]
	}]
}`

func TestTranscriberRecognize(t *testing.T) {
	rec := &fakeRecognizer{body: []byte(successBody)}
	opts := DefaultOptions("16k_zh", "mp3")
	tr := NewTranscriber(rec, opts, SRTOptions{})

	res, err := tr.Recognize(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	if res.RequestID != "req-ok" {
		t.Errorf("RequestID = %q, want req-ok", res.RequestID)
	}
	if res.SentenceCount() != 2 {
		t.Errorf("SentenceCount() = %d, want 2", res.SentenceCount())
	}
	if tr.Result() != res {
		t.Error("Result() should return the stored result")
	}
	if rec.opts != opts {
		t.Errorf("recognizer opts = %+v, want %+v", rec.opts, opts)
	}

	srt, err := tr.ExportSRT()
	if err != nil {
		t.Fatalf("ExportSRT() error = %v", err)
	}
	if !strings.HasPrefix(srt, "1\n00:00:00,000 --> 00:00:01,500\nhello world\n\n") {
		t.Errorf("ExportSRT() = %q", srt)
	}
}

func TestTranscriberExportBeforeRecognize(t *testing.T) {
	tr := NewTranscriber(&fakeRecognizer{}, Options{}, SRTOptions{})

	_, err := tr.ExportSRT()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ExportSRT() error = %v, want ErrInvalidState", err)
	}
}

func TestTranscriberRecognizeErrors(t *testing.T) {
	tests := []struct {
		name          string
		audio         []byte
		body          string
		err           error
		wantRequestID string
		wantCode      int
		wantCalls     int
	}{
		{
			name:          "serviceCode",
			audio:         []byte("audio"),
			body:          `{"request_id":"req-bad","code":4002,"message":"auth failed"}`,
			wantRequestID: "req-bad",
			wantCode:      4002,
			wantCalls:     1,
		},
		{
			name:      "emptyBody",
			audio:     []byte("audio"),
			body:      "",
			wantCalls: 1,
		},
		{
			name:      "malformedBody",
			audio:     []byte("audio"),
			body:      "<html>",
			wantCalls: 1,
		},
		{
			name:      "transportFailure",
			audio:     []byte("audio"),
			err:       errors.New("connection refused"),
			wantCalls: 1,
		},
		{
			name:      "emptyAudio",
			audio:     nil,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{body: []byte(tt.body), err: tt.err}
			tr := NewTranscriber(rec, Options{}, SRTOptions{})

			res, err := tr.Recognize(context.Background(), tt.audio)
			if res != nil {
				t.Errorf("Recognize() result = %+v, want nil", res)
			}

			var recErr *RecognitionError
			if !errors.As(err, &recErr) {
				t.Fatalf("Recognize() error = %v, want *RecognitionError", err)
			}
			if recErr.RequestID != tt.wantRequestID {
				t.Errorf("RequestID = %q, want %q", recErr.RequestID, tt.wantRequestID)
			}
			if recErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", recErr.Code, tt.wantCode)
			}
			if rec.calls != tt.wantCalls {
				t.Errorf("recognizer calls = %d, want %d", rec.calls, tt.wantCalls)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("error should wrap %v", tt.err)
			}
		})
	}
}

func TestTranscriberFailureClearsResult(t *testing.T) {
	rec := &fakeRecognizer{body: []byte(successBody)}
	tr := NewTranscriber(rec, Options{}, SRTOptions{})

	if _, err := tr.Recognize(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("first Recognize() error = %v", err)
	}

	rec.body = []byte(`{"request_id":"req-2","code":4008,"message":"timeout"}`)
	if _, err := tr.Recognize(context.Background(), []byte("audio")); err == nil {
		t.Fatal("second Recognize() should fail")
	}

	if tr.Result() != nil {
		t.Error("Result() should be nil after a failed recognition")
	}
	if _, err := tr.ExportSRT(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ExportSRT() error = %v, want ErrInvalidState", err)
	}
}

func TestTranscriberExportSkipsBlankSentences(t *testing.T) {
	body := `{"request_id":"req-blank","code":0,"flash_result":[{"channel_id":0,"sentence_list":[
		{"text":"first","start_time":0,"end_time":1000},
		{"text":"  ","start_time":1000,"end_time":1200},
		{"text":"second","start_time":1200,"end_time":2000}
	]}]}`
	tr := NewTranscriber(&fakeRecognizer{body: []byte(body)}, Options{}, SRTOptions{})

	res, err := tr.Recognize(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.SentenceCount() != 3 {
		t.Errorf("SentenceCount() = %d, want 3", res.SentenceCount())
	}

	srt, err := tr.ExportSRT()
	if err != nil {
		t.Fatalf("ExportSRT() error = %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nfirst\n\n2\n00:00:01,200 --> 00:00:02,000\nsecond\n\n"
	if srt != want {
		t.Errorf("ExportSRT() = %q, want %q", srt, want)
	}
}

func TestTranscriberRecognizeFile(t *testing.T) {
	rec := &fakeRecognizer{body: []byte(successBody)}
	tr := NewTranscriber(rec, Options{}, SRTOptions{})

	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := tr.RecognizeFile(context.Background(), path); err != nil {
		t.Fatalf("RecognizeFile() error = %v", err)
	}

	if _, err := tr.RecognizeFile(context.Background(), filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("RecognizeFile() should fail for a missing file")
	}
}

func TestRecognitionErrorMessage(t *testing.T) {
	err := &RecognitionError{RequestID: "abc", Code: 4002, Message: "auth failed"}
	want := "recognize failed, request_id: abc, code: 4002, message: auth failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
