package api

import (
	"context"
	"errors"
	"net/http"
)

// ErrorCode is a machine-readable classification of a failed call. Codes
// appear in JSON error output and select the process exit status.
type ErrorCode string

const (
	ErrBadRequest      ErrorCode = "bad_request"        // 400
	ErrUnauthorized    ErrorCode = "unauthorized"       // 401
	ErrPaymentRequired ErrorCode = "payment_required"   // 402, plan does not cover the operation
	ErrForbidden       ErrorCode = "forbidden"          // 403
	ErrNotFound        ErrorCode = "not_found"          // 404
	ErrConflict        ErrorCode = "conflict"           // 409
	ErrFeatureDisabled ErrorCode = "feature_disabled"   // 412, account feature not enabled
	ErrValidation      ErrorCode = "validation_failed"  // 422
	ErrRateLimited     ErrorCode = "rate_limited"       // 429
	ErrRequest         ErrorCode = "request_failed"     // any other non-2xx below 500
	ErrServerError     ErrorCode = "server_error"       // 5xx
	ErrTransport       ErrorCode = "transport"          // no response
	ErrTimeout         ErrorCode = "timeout"            // no response before the deadline
	ErrDecode          ErrorCode = "malformed_response" // 2xx with an unexpected body
	ErrConfig          ErrorCode = "invalid_config"     // rejected before sending
	ErrUnknown         ErrorCode = "unknown"            // not from the API client
)

var statusCodes = map[int]ErrorCode{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusPaymentRequired:     ErrPaymentRequired,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusPreconditionFailed:  ErrFeatureDisabled,
	http.StatusUnprocessableEntity: ErrValidation,
	http.StatusTooManyRequests:     ErrRateLimited,
}

var suggestions = map[ErrorCode]string{
	ErrUnauthorized:    "Run 'dnsimple auth login' to authenticate",
	ErrPaymentRequired: "Upgrade the account plan to use this feature",
	ErrForbidden:       "Check the token's account permissions",
	ErrNotFound:        "Verify the domain or account exists",
	ErrFeatureDisabled: "Enable the feature for the account (e.g. 'dnsimple vanity enable <domain>')",
	ErrBadRequest:      "Check the input values",
	ErrValidation:      "Check the input values",
	ErrRateLimited:     "Wait for the rate limit window to reset and retry",
	ErrServerError:     "The server encountered an error; try again later",
	ErrTransport:       "Check network connectivity and retry",
	ErrTimeout:         "Check network connectivity and retry",
	ErrDecode:          "The API returned an unexpected payload; report this with --debug output",
	ErrConfig:          "Check --base-url, DNSIMPLE_BASE_URL or base_url in config.yaml",
}

// Suggestion is a hint for resolving the error, or "".
func (c ErrorCode) Suggestion() string {
	return suggestions[c]
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	if code, ok := statusCodes[statusCode]; ok {
		return code
	}
	switch Classify(statusCode) {
	case OutcomeServerError:
		return ErrServerError
	case OutcomeRequestError:
		return ErrRequest
	}
	return ErrUnknown
}

// ErrorCodeOf classifies any error returned by the client.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if status, ok := StatusCode(err); ok {
		return ErrorCodeFromStatus(status)
	}
	switch {
	case IsDecodeError(err):
		return ErrDecode
	case IsConfigError(err):
		return ErrConfig
	case IsTransportError(err) && errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case IsTransportError(err):
		return ErrTransport
	}
	return ErrUnknown
}
