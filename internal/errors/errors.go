// Package errors defines the JSON error body returned by the greeting service.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error codes used by the hosting layer.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL"
)

// Error represents the standardized error schema.
type Error struct {
	Message   string    `json:"error"`
	Code      string    `json:"code"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Option mutates an Error during construction.
type Option func(*Error)

// New constructs an Error with the provided code and message.
func New(code, message string, opts ...Option) *Error {
	err := &Error{
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetail attaches a detail string.
func WithDetail(detail string) Option {
	return func(e *Error) {
		e.Detail = detail
	}
}

// WithRequestID attaches a request ID.
func WithRequestID(id string) Option {
	return func(e *Error) {
		e.RequestID = id
	}
}

// WithTraceID attaches a trace ID.
func WithTraceID(id string) Option {
	return func(e *Error) {
		e.TraceID = id
	}
}

// From coerces any error into an Error. Foreign errors become INTERNAL.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if shared, ok := err.(*Error); ok {
		return shared
	}
	return New(CodeInternal, "unexpected error occurred", WithDetail(err.Error()))
}

// StatusCode maps an error code to its HTTP status.
func StatusCode(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Write encodes err as JSON with the status derived from its code.
func Write(w http.ResponseWriter, err error) {
	shared := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(shared.Code))
	_ = json.NewEncoder(w).Encode(shared)
}
