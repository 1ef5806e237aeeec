// Package cmd test utilities.
//
// Command tests run Execute against an httptest server:
//
//	handler := newRouteHandler().
//	    On("GET", "/v2/1010/domains", jsonResponse(200, domainsPage1))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"domains", "list"}); err != nil {
//	        t.Fatalf("failed: %v", err)
//	    }
//	})
//
// setupTestEnvWithHandler points DNSIMPLE_BASE_URL at the server, sets
// DNSIMPLE_TOKEN/DNSIMPLE_ACCOUNT, isolates config and cache directories in
// t.TempDir(), and swaps the keychain for an in-memory keyring.
package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/dnsimple/dnsimple-cli/internal/config"
)

const testAccount = "1010"

// captureStdout executes fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

// captureOutput executes fn and returns stdout and stderr.
func captureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, fn)
	})
	return stdout, stderr
}

// testEnv exposes the mock server and keyring of a test.
type testEnv struct {
	server *httptest.Server
	ring   keyring.Keyring
}

// setupTestEnvWithHandler creates a mock server for handler and points the
// CLI at it. Everything is restored on cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("DNSIMPLE_TESTING", "1") // allow the loopback test server
	t.Setenv(config.EnvBaseURL, server.URL)
	t.Setenv(config.EnvToken, "test-token")
	t.Setenv(config.EnvAccount, testAccount)
	t.Setenv(config.EnvProfile, "")
	t.Setenv("DNSIMPLE_OUTPUT", "text")
	t.Setenv("DNSIMPLE_NO_CACHE", "")
	t.Setenv("DNSIMPLE_CACHE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)

	return &testEnv{server: server, ring: ring}
}

// jsonResponse returns a handler answering with status and body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// noContent answers 204 with no body.
func noContent() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// routeHandler routes requests by exact "METHOD PATH" and records every
// request it sees. Unknown routes get a 404 in the API's error shape.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers handler for method and path (including the /v2 prefix).
func (h *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes[method+" "+path] = handler
	return h
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	h.mu.Lock()
	h.requests = append(h.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	handler, ok := h.routes[r.Method+" "+r.URL.Path]
	h.mu.Unlock()

	if !ok {
		jsonResponse(http.StatusNotFound, `{"message":"Domain `+"`"+r.URL.Path+"`"+` not found"}`)(w, r)
		return
	}
	handler(w, r)
}

// Requests returns a copy of the requests seen so far.
func (h *routeHandler) Requests() []recordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedRequest(nil), h.requests...)
}

// count returns how many requests matched method and path.
func (h *routeHandler) count(method, path string) int {
	n := 0
	for _, r := range h.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

const (
	whoamiAccountBody = `{"data":{"user":null,"account":{"id":1010,"email":"ops@example.com","plan_identifier":"teams-v1-monthly","created_at":"2014-05-19T14:20:32Z","updated_at":"2016-06-14T11:23:20Z"}}}`
	whoamiUserBody    = `{"data":{"user":{"id":7,"email":"owner@example.com","created_at":"2014-05-19T14:20:32Z","updated_at":"2016-06-14T11:23:20Z"},"account":null}}`

	exampleDomainJSON = `{"id":181984,"account_id":1010,"registrant_id":2715,"name":"example.com","unicode_name":"example.com","state":"registered","auto_renew":true,"private_whois":false,"expires_at":"2027-06-05T02:15:00Z","created_at":"2020-06-04T19:15:14Z","updated_at":"2020-06-04T19:15:21Z"}`
	otherDomainJSON   = `{"id":181985,"account_id":1010,"registrant_id":null,"name":"other.org","unicode_name":"other.org","state":"hosted","auto_renew":false,"private_whois":false,"expires_at":null,"created_at":"2020-06-04T19:47:05Z","updated_at":"2020-06-04T19:47:05Z"}`

	domainsSinglePage = `{"data":[` + exampleDomainJSON + `,` + otherDomainJSON + `],"pagination":{"current_page":1,"per_page":30,"total_entries":2,"total_pages":1}}`
)
