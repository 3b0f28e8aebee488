package scrapedo

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/scrapedo-mcp/models"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name      string
		fault     *Fault
		status    int
		errType   models.ErrorType
		retryable bool
		consumed  bool
	}{
		{"rate limit", &Fault{StatusCode: 429}, 429, models.ErrRateLimit, true, false},
		{"auth", &Fault{StatusCode: 401}, 401, models.ErrAuth, false, false},
		{"not found", &Fault{StatusCode: 404}, 404, models.ErrTarget, false, true},
		{"bad request", &Fault{StatusCode: 400}, 400, models.ErrTarget, false, false},
		{"bad gateway", &Fault{StatusCode: 502}, 502, models.ErrUnknown, true, false},
		{"client canceled", &Fault{StatusCode: 510}, 510, models.ErrClientCanceled, false, false},
		{"timeout", &Fault{Aborted: true, Err: context.DeadlineExceeded}, 0, models.ErrTimeout, true, false},
		{"other status", &Fault{StatusCode: 503}, 503, models.ErrUnknown, false, true},
		{"redirect not followed", &Fault{StatusCode: 302}, 302, models.ErrUnknown, false, true},
		{"no status", &Fault{Err: errors.New("connection reset")}, 500, models.ErrUnknown, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se *models.ScrapedoError
			require.ErrorAs(t, Classify(tt.fault), &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.errType, se.Type)
			assert.Equal(t, tt.retryable, se.Retryable)
			assert.Equal(t, tt.consumed, se.ConsumedCredits)
		})
	}
}

func TestClassifyStatusWinsOverAbort(t *testing.T) {
	var se *models.ScrapedoError
	require.ErrorAs(t, Classify(&Fault{StatusCode: 404, Aborted: true}), &se)
	assert.Equal(t, models.ErrTarget, se.Type)
}

func TestClassifyAbortIgnoresUnknownStatus(t *testing.T) {
	var se *models.ScrapedoError
	require.ErrorAs(t, Classify(&Fault{StatusCode: 504, Aborted: true}), &se)
	assert.Equal(t, models.ErrTimeout, se.Type)
	assert.True(t, se.Retryable)
	assert.Zero(t, se.StatusCode)
}

func TestClassifyRetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "12")

	var se *models.ScrapedoError
	require.ErrorAs(t, Classify(&Fault{StatusCode: 429, Header: h}), &se)
	assert.Equal(t, map[string]any{"retryAfter": "12"}, se.Details)

	require.ErrorAs(t, Classify(&Fault{StatusCode: 429}), &se)
	assert.Nil(t, se.Details)
}

func TestClassifyKeepsCause(t *testing.T) {
	f := &Fault{Aborted: true, Err: context.DeadlineExceeded}
	err := Classify(f)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var got *Fault
	require.ErrorAs(t, err, &got)
	assert.Same(t, f, got)
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	orig := errors.New("programming fault")
	assert.Same(t, orig, Classify(orig))
	assert.Nil(t, Classify(nil))
}
