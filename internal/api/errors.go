package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is the structured detail the API returns with a failed request.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
	RequestID   string
	RateLimit   *RateLimit // set on 429 responses
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if lines := e.fieldErrorLines(); len(lines) > 0 {
		msg += "\nValidation errors:\n" + strings.Join(lines, "\n")
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

func (e *APIError) fieldErrorLines() []string {
	var lines []string
	for field, msgs := range e.FieldErrors {
		for _, m := range msgs {
			lines = append(lines, fmt.Sprintf("  %s: %s", field, m))
		}
	}
	// Sort for consistent output
	sort.Strings(lines)
	return lines
}

// RequestError is a non-2xx, non-5xx response: a problem with the request,
// a missing resource, or a disabled account feature (412).
type RequestError struct {
	Method Method
	Path   string
	*APIError
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.APIError.Error())
}

func (e *RequestError) Unwrap() error { return e.APIError }

// ServerError is a 5xx response.
type ServerError struct {
	Method Method
	Path   string
	*APIError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s failed on the server: %s", e.Method, e.Path, e.APIError.Error())
}

func (e *ServerError) Unwrap() error { return e.APIError }

// TransportError is a failure to exchange a request with the server at all.
// It carries no API detail.
type TransportError struct {
	Method Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a 2xx body that does not match the expected shape.
type DecodeError struct {
	Target string
	Field  string
	Index  int
	InList bool
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("unexpected API response format: cannot decode ")
	b.WriteString(e.Target)
	if e.InList {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by a RequestError or ServerError.
func StatusCode(err error) (int, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.APIError != nil {
		return reqErr.StatusCode, true
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) && srvErr.APIError != nil {
		return srvErr.StatusCode, true
	}
	return 0, false
}

// IsRequestError checks if the error is a RequestError.
func IsRequestError(err error) bool {
	var e *RequestError
	return errors.As(err, &e)
}

// IsServerError checks if the error is a ServerError.
func IsServerError(err error) bool {
	var e *ServerError
	return errors.As(err, &e)
}

// ConfigError is client configuration rejected before any request is sent,
// such as a base URL that fails validation.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError checks if the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a TransportError.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsDecodeError checks if the error is a DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsNotFound checks if the error is a 404 RequestError.
func IsNotFound(err error) bool {
	return requestStatus(err) == http.StatusNotFound
}

// IsPreconditionFailed checks if the error is a 412 RequestError, which the
// API uses to signal a feature that is not enabled on the account.
func IsPreconditionFailed(err error) bool {
	return requestStatus(err) == http.StatusPreconditionFailed
}

// IsUnauthorized checks if the error is a 401 RequestError.
func IsUnauthorized(err error) bool {
	return requestStatus(err) == http.StatusUnauthorized
}

func requestStatus(err error) int {
	var e *RequestError
	if errors.As(err, &e) && e.APIError != nil {
		return e.StatusCode
	}
	return 0
}
