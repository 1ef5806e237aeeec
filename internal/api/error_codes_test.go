package api

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorCode
	}{
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{402, ErrPaymentRequired},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{409, ErrConflict},
		{412, ErrFeatureDisabled},
		{422, ErrValidation},
		{429, ErrRateLimited},
		{418, ErrRequest},
		{302, ErrRequest},
		{100, ErrRequest},
		{500, ErrServerError},
		{599, ErrServerError},
		{200, ErrUnknown},
	}
	for _, tt := range tests {
		if got := ErrorCodeFromStatus(tt.status); got != tt.expected {
			t.Errorf("ErrorCodeFromStatus(%d) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil", nil, ""},
		{"request", &RequestError{APIError: &APIError{StatusCode: 412}}, ErrFeatureDisabled},
		{"server", &ServerError{APIError: &APIError{StatusCode: 503}}, ErrServerError},
		{"decode", &DecodeError{Target: "Domain"}, ErrDecode},
		{"config", &ConfigError{Setting: "base URL", Err: errors.New("blocked")}, ErrConfig},
		{"transport", &TransportError{Err: errors.New("connection refused")}, ErrTransport},
		{"timeout", &TransportError{Err: context.DeadlineExceeded}, ErrTimeout},
		{"other", errors.New("boom"), ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCodeOf(tt.err); got != tt.expected {
				t.Errorf("ErrorCodeOf(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestErrorCode_Suggestion(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrUnauthorized, "dnsimple auth login"},
		{ErrFeatureDisabled, "vanity enable"},
		{ErrConfig, "--base-url"},
		{ErrUnknown, ""},
	}
	for _, tt := range tests {
		got := tt.code.Suggestion()
		if tt.want == "" {
			if got != "" {
				t.Errorf("%s: expected no suggestion, got %q", tt.code, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: suggestion %q does not mention %q", tt.code, got, tt.want)
		}
	}
}
