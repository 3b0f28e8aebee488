package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapedoErrorSummary(t *testing.T) {
	e := &ScrapedoError{StatusCode: 404, Type: ErrTarget, ConsumedCredits: true}
	assert.Equal(t, "scrapedo error 404: target_error", e.Error())
	assert.Equal(t, "scrapedo error 404: target_error (not retryable, credits consumed)", e.Summary())

	e = &ScrapedoError{StatusCode: 429, Type: ErrRateLimit, Retryable: true}
	assert.Equal(t, "scrapedo error 429: rate_limit (retryable, no credits consumed)", e.Summary())
}

func TestScrapedoErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	e := &ScrapedoError{Type: ErrTimeout, Err: cause}
	assert.ErrorIs(t, e, cause)
}

func TestToDetail(t *testing.T) {
	d := (&ScrapedoError{StatusCode: 429, Type: ErrRateLimit, Retryable: true, Details: map[string]any{"retryAfter": "5"}}).ToDetail()
	assert.Equal(t, ErrCodeRateLimited, d.Code)
	assert.Equal(t, ErrRateLimit, d.ErrorType)
	assert.True(t, d.Retryable)

	d = (&ScrapedoError{StatusCode: 401, Type: ErrAuth}).ToDetail()
	assert.Equal(t, ErrCodeUpstream, d.Code)

	d = NewValidationError("url", "is required").ToDetail()
	assert.Equal(t, ErrCodeInvalidInput, d.Code)
	assert.Equal(t, "invalid parameters: url: is required", d.Message)
	assert.Len(t, d.Fields, 1)
}
