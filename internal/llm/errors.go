package llm

import (
	"errors"
	"fmt"
)

var ErrEmptyResponse = errors.New("empty response")

// ServiceError is returned when the remote service rejects a request.
type ServiceError struct {
	Provider   string
	RequestID  string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: request_id=%s status=%d code=%s: %s",
		e.Provider, e.RequestID, e.StatusCode, e.Code, msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}
