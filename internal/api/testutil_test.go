package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
)

type sentRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// stubTransport answers every Send with a canned response and records what was sent.
type stubTransport struct {
	mu       sync.Mutex
	status   int
	body     string
	header   http.Header
	err      error
	requests []sentRequest
}

func (s *stubTransport) Send(_ context.Context, method, url string, header http.Header, body []byte) (*RawResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, sentRequest{Method: method, URL: url, Header: header.Clone(), Body: body})
	if s.err != nil {
		return nil, s.err
	}
	return &RawResponse{StatusCode: s.status, Header: s.header, Body: []byte(s.body)}, nil
}

func (s *stubTransport) last() sentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return sentRequest{}
	}
	return s.requests[len(s.requests)-1]
}

func newStubClient(status int, body string) (*Client, *stubTransport) {
	stub := &stubTransport{status: status, body: body}
	client := newTestClient("https://api.test", "test-token")
	client.Transport = stub
	return client, stub
}

// asDecodeError fails the test unless err wraps a *DecodeError.
func asDecodeError(t *testing.T, err error) *DecodeError {
	t.Helper()
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	return decErr
}

// assertJSONEqual compares two JSON documents after normalising whitespace and key order.
func assertJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("invalid expected JSON %q: %v", want, err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("invalid JSON %q: %v", got, err)
	}
	if !reflect.DeepEqual(w, g) {
		t.Errorf("JSON mismatch\nwant: %s\n got: %s", want, got)
	}
}

// requestRecorder captures descriptors without any transport.
type requestRecorder struct {
	requests []RequestDescriptor
	resp     *RawResponse
}

func (r *requestRecorder) Execute(_ context.Context, req RequestDescriptor) (*RawResponse, error) {
	r.requests = append(r.requests, req)
	return r.resp, nil
}

// assertSameRequest checks that the single recorded request is the one want builds.
func assertSameRequest(t *testing.T, want *RequestBuilder, rec *requestRecorder) {
	t.Helper()
	if len(rec.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(rec.requests))
	}
	w, err := want.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := rec.requests[0]
	if got.Method() != w.Method() || got.Path() != w.Path() || got.RawQuery() != w.RawQuery() {
		t.Errorf("sent %s %s?%s, want %s %s?%s", got.Method(), got.Path(), got.RawQuery(), w.Method(), w.Path(), w.RawQuery())
	}
	if string(got.Body()) != string(w.Body()) {
		t.Errorf("body = %s, want %s", got.Body(), w.Body())
	}
}
