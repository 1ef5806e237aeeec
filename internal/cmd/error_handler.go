package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/resolve"
)

// ErrorPayload is the JSON shape of a failed command in json/jsonl mode.
type ErrorPayload struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure for machine consumers.
type ErrorDetail struct {
	Code        api.ErrorCode       `json:"code"`
	Message     string              `json:"message"`
	Status      int                 `json:"status,omitempty"`
	Fields      map[string][]string `json:"fields,omitempty"`
	RequestID   string              `json:"request_id,omitempty"`
	Suggestion  string              `json:"suggestion,omitempty"`
	Suggestions []string            `json:"did_you_mean,omitempty"`
	RetryAfter  int                 `json:"retry_after,omitempty"` // seconds
}

var now = time.Now

// hintError attaches "did you mean" candidates to an error.
type hintError struct {
	err         error
	suggestions []string
}

func (e *hintError) Error() string { return e.err.Error() }

func (e *hintError) Unwrap() error { return e.err }

func structuredError(err error) ErrorPayload {
	code := api.ErrorCodeOf(err)
	detail := ErrorDetail{
		Code:       code,
		Message:    err.Error(),
		Suggestion: code.Suggestion(),
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		detail.Status = apiErr.StatusCode
		detail.Message = apiErr.Message
		detail.Fields = apiErr.FieldErrors
		detail.RequestID = apiErr.RequestID
		if apiErr.RateLimit != nil {
			detail.RetryAfter = int(apiErr.RateLimit.ResetIn(now()).Seconds())
		}
	}
	var hint *hintError
	if errors.As(err, &hint) {
		detail.Suggestions = hint.suggestions
	}
	return ErrorPayload{Error: detail}
}

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *api.APIError
	var decodeErr *api.DecodeError
	var transportErr *api.TransportError
	var configErr *api.ConfigError

	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "Error: %s (HTTP %d)\n", apiErr.Message, apiErr.StatusCode)
		fields := make([]string, 0, len(apiErr.FieldErrors))
		for field := range apiErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(&msg, "  %s: %s\n", field, strings.Join(apiErr.FieldErrors[field], "; "))
		}
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "Request ID: %s\n", apiErr.RequestID)
		}
		if rl := apiErr.RateLimit; rl != nil {
			if wait := rl.ResetIn(now()); wait > 0 {
				fmt.Fprintf(&msg, "Rate limit of %d requests/hour resets in %s\n", rl.Limit, wait)
			}
		}

	case errors.As(err, &decodeErr):
		fmt.Fprintf(&msg, "Error: %s\n", decodeErr.Error())

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Error: could not reach the API: %v\n", transportErr.Err)

	case errors.As(err, &configErr):
		fmt.Fprintf(&msg, "Error: %s\n", configErr.Error())

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
		return msg.String()
	}

	var hint *hintError
	if errors.As(err, &hint) && len(hint.suggestions) > 0 {
		fmt.Fprintf(&msg, "\n%s\n", resolve.DidYouMean(hint.suggestions))
	} else if suggestion := api.ErrorCodeOf(err).Suggestion(); suggestion != "" {
		fmt.Fprintf(&msg, "\nSuggestion: %s\n", suggestion)
	}
	return msg.String()
}
