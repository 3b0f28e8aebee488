package scrapedo

import (
	"errors"
	"net/http"

	"github.com/use-agent/scrapedo-mcp/models"
)

type classification struct {
	errType   models.ErrorType
	retryable bool
	consumed  bool
}

var statusTable = map[int]classification{
	http.StatusTooManyRequests: {models.ErrRateLimit, true, false},
	http.StatusUnauthorized:    {models.ErrAuth, false, false},
	http.StatusNotFound:        {models.ErrTarget, false, true},
	http.StatusBadRequest:      {models.ErrTarget, false, false},
	http.StatusBadGateway:      {models.ErrUnknown, true, false},
	http.StatusNotExtended:     {models.ErrClientCanceled, false, false},
}

// Classify maps a transport *Fault to a *models.ScrapedoError. Errors that
// are not faults are returned unchanged.
//
// A matching status always wins; the abort signal is consulted only when
// the status is not in the table.
func Classify(err error) error {
	var f *Fault
	if !errors.As(err, &f) {
		return err
	}

	if c, ok := statusTable[f.StatusCode]; ok {
		se := &models.ScrapedoError{
			StatusCode:      f.StatusCode,
			Type:            c.errType,
			Retryable:       c.retryable,
			ConsumedCredits: c.consumed,
			Err:             f,
		}
		if f.StatusCode == http.StatusTooManyRequests {
			if ra := f.Header.Get("Retry-After"); ra != "" {
				se.Details = map[string]any{"retryAfter": ra}
			}
		}
		return se
	}

	if f.Aborted {
		return &models.ScrapedoError{
			Type:      models.ErrTimeout,
			Retryable: true,
			Err:       f,
		}
	}

	status := f.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	se := &models.ScrapedoError{
		StatusCode:      status,
		Type:            models.ErrUnknown,
		ConsumedCredits: true,
		Err:             f,
	}
	if f.StatusCode == 0 && f.Err != nil {
		se.Details = map[string]any{"cause": f.Err.Error()}
	}
	return se
}
