package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Method is an HTTP method accepted by the API.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

const contentTypeJSON = "application/json"

// ErrInvalidMethod is returned by Build for methods outside GET/POST/PUT/PATCH/DELETE.
var ErrInvalidMethod = errors.New("unsupported HTTP method")

// QueryParam is a single query string pair. Order is preserved on the wire.
type QueryParam struct {
	Key   string
	Value string
}

// RequestDescriptor is a built, read-only request. It is consumed once by Client.Execute.
type RequestDescriptor struct {
	method Method
	path   string
	query  []QueryParam
	header http.Header
	body   []byte
}

// Method returns the request method.
func (r RequestDescriptor) Method() Method { return r.method }

// Path returns the API path, relative to the versioned base URL.
func (r RequestDescriptor) Path() string { return r.path }

// Query returns a copy of the ordered query parameters.
func (r RequestDescriptor) Query() []QueryParam {
	if len(r.query) == 0 {
		return nil
	}
	out := make([]QueryParam, len(r.query))
	copy(out, r.query)
	return out
}

// Header returns a copy of the request-specific headers.
func (r RequestDescriptor) Header() http.Header {
	return r.header.Clone()
}

// Body returns a copy of the serialized payload, or nil when there is none.
func (r RequestDescriptor) Body() []byte {
	if r.body == nil {
		return nil
	}
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// HasBody reports whether a payload is attached.
func (r RequestDescriptor) HasBody() bool { return r.body != nil }

// RawQuery encodes the query parameters in insertion order.
func (r RequestDescriptor) RawQuery() string {
	if len(r.query) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.query))
	for _, p := range r.query {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// RequestBuilder accumulates the parts of a request. It is not safe for
// concurrent use; build one per call.
type RequestBuilder struct {
	method Method
	path   string
	query  []QueryParam
	header http.Header
	body   []byte
	err    error
}

// NewRequest starts a GET request with no body for path.
func NewRequest(path string) *RequestBuilder {
	return &RequestBuilder{
		method: MethodGet,
		path:   path,
		header: make(http.Header),
	}
}

// Method sets the request method.
func (b *RequestBuilder) Method(m Method) *RequestBuilder {
	b.method = m
	return b
}

// Query appends a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.query = append(b.query, QueryParam{Key: key, Value: value})
	return b
}

// Header sets a request header, replacing any previous value.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.header.Set(key, value)
	return b
}

// JSON encodes payload as the request body. A later call replaces the earlier payload.
func (b *RequestBuilder) JSON(payload any) *RequestBuilder {
	data, err := Encode(payload)
	if err != nil {
		b.err = fmt.Errorf("failed to marshal request body: %w", err)
		return b
	}
	b.err = nil
	b.body = data
	b.header.Set("Content-Type", contentTypeJSON)
	return b
}

// Build freezes the current state into a RequestDescriptor. The builder
// stays usable; later changes do not affect descriptors already built.
func (b *RequestBuilder) Build() (RequestDescriptor, error) {
	if b.err != nil {
		return RequestDescriptor{}, b.err
	}
	switch b.method {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
	default:
		return RequestDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidMethod, b.method)
	}

	req := RequestDescriptor{
		method: b.method,
		path:   b.path,
		header: b.header.Clone(),
	}
	if len(b.query) > 0 {
		req.query = make([]QueryParam, len(b.query))
		copy(req.query, b.query)
	}
	if b.body != nil {
		req.body = make([]byte, len(b.body))
		copy(req.body, b.body)
	}
	return req, nil
}
