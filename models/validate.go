package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(screenshotRules, ScrapeRequest{})
	return v
}

// screenshotRules enforces the cross-field invariants: at most one
// screenshot variant, and no browser script alongside a screenshot.
func screenshotRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(ScrapeRequest)
	active := r.ActiveScreenshots()
	if len(active) > 1 {
		sl.ReportError(r.ScreenShot, "screenShot", "ScreenShot", "screenshot_exclusive", strings.Join(active, ","))
	}
	if len(active) > 0 && !r.PlayWithBrowser.IsZero() {
		sl.ReportError(r.PlayWithBrowser, "playWithBrowser", "PlayWithBrowser", "browser_screenshot_conflict", "")
	}
}

// Validate checks every field range, enum and cross-field rule in one pass.
func (r *ScrapeRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

// ValidateModifiers is Validate without the url requirement, for callers
// that only build proxy configuration.
func (r *ScrapeRequest) ValidateModifiers() error {
	return toValidationError(validate.StructExcept(r, "URL"))
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any network call when a request is
// malformed. It is never retried or classified as a ScrapedoError.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid parameters: " + strings.Join(parts, ", ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return "must be >= " + fe.Param()
	case "max":
		return "must be <= " + fe.Param()
	case "screenshot_exclusive":
		return "only one of screenShot, fullScreenShot, or particularScreenShot can be enabled at a time"
	case "browser_screenshot_conflict":
		return "playWithBrowser actions cannot be combined with screenshot capture flags"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
