package models

import (
	"fmt"
	"strings"
)

// ErrorType is the fixed taxonomy of Scrape.do failures.
type ErrorType string

const (
	ErrRateLimit      ErrorType = "rate_limit"
	ErrAuth           ErrorType = "auth"
	ErrTimeout        ErrorType = "timeout"
	ErrClientCanceled ErrorType = "client_canceled"
	ErrTarget         ErrorType = "target_error"
	ErrUnknown        ErrorType = "unknown"
)

// ScrapedoError is a classified transport failure. ConsumedCredits tells
// the caller whether Scrape.do billed the attempt anyway.
type ScrapedoError struct {
	StatusCode      int            `json:"statusCode"`
	Type            ErrorType      `json:"errorType"`
	ConsumedCredits bool           `json:"consumedCredits"`
	Retryable       bool           `json:"retryable"`
	Details         map[string]any `json:"details,omitempty"`

	Err error `json:"-"`
}

func (e *ScrapedoError) Error() string {
	return fmt.Sprintf("scrapedo error %d: %s", e.StatusCode, e.Type)
}

func (e *ScrapedoError) Unwrap() error {
	return e.Err
}

// Summary renders the error with its billing and retry hints.
func (e *ScrapedoError) Summary() string {
	var hints []string
	if e.Retryable {
		hints = append(hints, "retryable")
	} else {
		hints = append(hints, "not retryable")
	}
	if e.ConsumedCredits {
		hints = append(hints, "credits consumed")
	} else {
		hints = append(hints, "no credits consumed")
	}
	return fmt.Sprintf("%s (%s)", e.Error(), strings.Join(hints, ", "))
}

// Error codes used in REST responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeUpstream     = "UPSTREAM_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in REST responses.
type ErrorDetail struct {
	Code            string         `json:"code"`
	Message         string         `json:"message"`
	ErrorType       ErrorType      `json:"errorType,omitempty"`
	StatusCode      int            `json:"statusCode,omitempty"`
	Retryable       bool           `json:"retryable,omitempty"`
	ConsumedCredits bool           `json:"consumedCredits,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	Fields          []FieldError   `json:"fields,omitempty"`
}

// ToDetail converts a classified error to its REST form.
func (e *ScrapedoError) ToDetail() *ErrorDetail {
	code := ErrCodeUpstream
	if e.Type == ErrRateLimit {
		code = ErrCodeRateLimited
	}
	return &ErrorDetail{
		Code:            code,
		Message:         e.Error(),
		ErrorType:       e.Type,
		StatusCode:      e.StatusCode,
		Retryable:       e.Retryable,
		ConsumedCredits: e.ConsumedCredits,
		Details:         e.Details,
	}
}

// ToDetail converts a validation failure to its REST form.
func (e *ValidationError) ToDetail() *ErrorDetail {
	return &ErrorDetail{
		Code:    ErrCodeInvalidInput,
		Message: e.Error(),
		Fields:  e.Fields,
	}
}
