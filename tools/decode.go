package tools

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/models"
)

// requestFields holds the JSON names ScrapeRequest understands.
var requestFields = func() map[string]struct{} {
	fields := map[string]struct{}{}
	t := reflect.TypeOf(models.ScrapeRequest{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = struct{}{}
		}
	}
	return fields
}()

// decodeRequest maps tool arguments onto a ScrapeRequest. Keys the request
// does not know are ignored; extra names the calling tool consumes itself
// are not reported.
func (h *Handler) decodeRequest(req mcp.CallToolRequest, extra ...string) (*models.ScrapeRequest, error) {
	args := req.GetArguments()

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, models.NewValidationError("arguments", err.Error())
	}
	var out models.ScrapeRequest
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, decodeError(err)
	}

	if unknown := unknownKeys(args, extra); len(unknown) > 0 {
		h.log.Debug("ignoring unknown arguments",
			zap.String("tool", req.Params.Name),
			zap.Strings("keys", unknown),
		)
	}
	return &out, nil
}

func unknownKeys(args map[string]any, extra []string) []string {
	var unknown []string
	for k := range args {
		if _, ok := requestFields[k]; ok {
			continue
		}
		known := false
		for _, e := range extra {
			if k == e {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// decodeError turns a JSON type mismatch into a field-level validation error.
func decodeError(err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return models.NewValidationError(te.Field, "must be of type "+jsonKind(te.Type))
	}
	return models.NewValidationError("arguments", err.Error())
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64:
		return "integer"
	case reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
