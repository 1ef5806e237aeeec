package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dnsimple/dnsimple-cli/internal/debug"
)

// Outcome is the classification of an HTTP status code.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRequestError
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRequestError:
		return "request_error"
	case OutcomeServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Classify maps every status code to exactly one outcome: 2xx succeed, 5xx
// are server errors, anything else (1xx, 3xx, 4xx) is a request error.
func Classify(statusCode int) Outcome {
	switch {
	case statusCode >= 200 && statusCode <= 299:
		return OutcomeSuccess
	case statusCode >= 500 && statusCode <= 599:
		return OutcomeServerError
	default:
		return OutcomeRequestError
	}
}

// Execute sends req and classifies the response. A nil error means a 2xx
// response whose body is handed back undecoded. No retries are made.
func (c *Client) Execute(ctx context.Context, req RequestDescriptor) (*RawResponse, error) {
	fullURL := c.requestURL(req)

	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}

	header := req.Header()
	if header == nil {
		header = make(http.Header)
	}
	if c.Token != "" {
		header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		header.Set("User-Agent", c.UserAgent)
	}
	header.Set("Accept", contentTypeJSON)
	requestID := ""
	if c.RequestIDFunc != nil {
		requestID = c.RequestIDFunc()
		header.Set("X-Request-Id", requestID)
	}

	transport := c.Transport
	if transport == nil {
		transport = &HTTPTransport{Client: &http.Client{Timeout: DefaultTimeout}}
	}

	log := debug.Logger(ctx).With("method", req.Method(), "request_id", requestID)
	log.DebugContext(ctx, "sending request", "url", fullURL, "authorization", header.Get("Authorization"))
	start := time.Now()
	resp, err := transport.Send(ctx, string(req.Method()), fullURL, header, req.Body())
	if err != nil {
		log.DebugContext(ctx, "request failed", "path", req.Path(), "error", err)
		return nil, &TransportError{Method: req.Method(), URL: fullURL, Err: err}
	}
	if resp == nil {
		return nil, &TransportError{Method: req.Method(), URL: fullURL, Err: fmt.Errorf("transport returned no response")}
	}
	c.observeRateLimit(resp.Header)
	log.DebugContext(ctx, "request complete", "path", req.Path(), "status", resp.StatusCode, "duration", time.Since(start))

	switch Classify(resp.StatusCode) {
	case OutcomeSuccess:
		return resp, nil
	case OutcomeServerError:
		return nil, &ServerError{Method: req.Method(), Path: req.Path(), APIError: parseAPIError(resp)}
	default:
		return nil, &RequestError{Method: req.Method(), Path: req.Path(), APIError: parseAPIError(resp)}
	}
}

func (c *Client) requestURL(req RequestDescriptor) string {
	u := c.BaseURL + "/" + APIVersion + req.Path()
	if q := req.RawQuery(); q != "" {
		u += "?" + q
	}
	return u
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}
	if err := validateBaseURL(c.BaseURL); err != nil {
		return &ConfigError{Setting: "base URL " + c.BaseURL, Err: err}
	}
	c.validatedBaseURL = true
	return nil
}

// parseAPIError extracts the message and field errors from an error body.
// Parsing is best effort: a non-JSON body yields the status text.
func parseAPIError(resp *RawResponse) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  requestIDFromHeader(resp.Header),
	}
	if rl, ok := parseRateLimit(resp.Header); ok && resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RateLimit = &rl
	}

	var body struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(body.Message)
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(body.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.FieldErrors = parseFieldErrors(body.Errors)
	return apiErr
}

// parseFieldErrors handles both {"field": "msg"} and {"field": ["msg", ...]}.
func parseFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil || len(generic) == 0 {
		return nil
	}

	out := make(map[string][]string, len(generic))
	for field, value := range generic {
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			if len(many) > 0 {
				out[field] = many
			}
			continue
		}
		var one string
		if err := json.Unmarshal(value, &one); err == nil && one != "" {
			out[field] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}
