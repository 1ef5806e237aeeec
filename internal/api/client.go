package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

const (
	DefaultBaseURL = "https://api.dnsimple.com"
	SandboxBaseURL = "https://api.sandbox.dnsimple.com"
	APIVersion     = "v2"
	DefaultTimeout = 30 * time.Second
)

// Transport sends one HTTP exchange. Any conforming HTTP client satisfies it;
// timeouts and cancellation come from ctx and the implementation.
type Transport interface {
	Send(ctx context.Context, method, url string, header http.Header, body []byte) (*RawResponse, error)
}

// RawResponse is the undecoded result of a single exchange.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	Client *http.Client
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, method, url string, header http.Header, body []byte) (*RawResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header = header

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Client is the DNSimple API client. A Client holds only connection
// settings and the last rate-limit snapshot, so independently configured
// clients can coexist and calls may run concurrently.
type Client struct {
	BaseURL   string
	Token     string
	UserAgent string
	Transport Transport
	// RequestIDFunc, when set, supplies an X-Request-Id for every request.
	RequestIDFunc     func() string
	skipURLValidation bool // internal flag for testing only
	validatedBaseURL  bool
	validateMu        sync.Mutex
	rateLimitMu       sync.Mutex
	rateLimit         RateLimit
	hasRateLimit      bool
}

// Compile-time interface implementation checks
var (
	_ Requester = (*Client)(nil)
	_ Transport = (*HTTPTransport)(nil)
)

var validateBaseURL = validation.ValidateBaseURL

// New creates a new API client authenticating with a bearer token.
func New(baseURL, token string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		Transport: &HTTPTransport{Client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		}},
		// Allow loopback URLs when DNSIMPLE_TESTING=1 is set (for integration tests)
		skipURLValidation: os.Getenv("DNSIMPLE_TESTING") == "1",
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL, token string) *Client {
	c := New(baseURL, token)
	c.skipURLValidation = true
	return c
}

// WithTransport returns a copy of c sending through t.
func (c *Client) WithTransport(t Transport) *Client {
	return &Client{
		BaseURL:           c.BaseURL,
		Token:             c.Token,
		UserAgent:         c.UserAgent,
		Transport:         t,
		RequestIDFunc:     c.RequestIDFunc,
		skipURLValidation: c.skipURLValidation,
	}
}

// SetTimeout sets the timeout of the default HTTP transport. Custom
// transports are left untouched.
func (c *Client) SetTimeout(d time.Duration) {
	if t, ok := c.Transport.(*HTTPTransport); ok && t.Client != nil {
		t.Client.Timeout = d
	}
}
