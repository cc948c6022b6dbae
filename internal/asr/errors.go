package asr

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("no successful recognition result to export")

type RecognitionError struct {
	RequestID string
	Code      int
	Message   string
	Err       error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognize failed, request_id: %s, code: %d, message: %s: %v",
			e.RequestID, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("recognize failed, request_id: %s, code: %d, message: %s",
		e.RequestID, e.Code, e.Message)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}
