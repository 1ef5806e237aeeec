package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainsListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"domains", "list"}); err != nil {
			t.Errorf("domains list failed: %v", err)
		}
	})

	for _, want := range []string{"NAME", "example.com", "registered", "2027-06-05", "other.org", "hosted"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer test-token", reqs[0].Header.Get("Authorization"))
	assert.True(t, strings.HasPrefix(reqs[0].Header.Get("User-Agent"), "dnsimple-cli/"))
	assert.NotEmpty(t, reqs[0].Header.Get("X-Request-Id"))
}

func TestDomainsListCommand_QueryOptions(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, `{"data":[],"pagination":{"current_page":2,"per_page":10,"total_entries":0,"total_pages":0}}`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		err := Execute(context.Background(), []string{"domains", "list", "--name-like", "shop", "--sort", "expiration:desc", "--page", "2", "--per-page", "10"})
		require.NoError(t, err)
	})

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "name_like=shop&sort=expiration%3Adesc&page=2&per_page=10", reqs[0].Query)
	assert.Contains(t, stderr, "No domains found")
}

func TestDomainsListCommand_JSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "-o", "json"}))
	})

	var got struct {
		Data []struct {
			Name  string `json:"name"`
			State string `json:"state"`
		} `json:"data"`
		Pagination struct {
			TotalEntries int `json:"total_entries"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &got), output)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "example.com", got.Data[0].Name)
	assert.Equal(t, "hosted", got.Data[1].State)
	assert.Equal(t, 2, got.Pagination.TotalEntries)
}

func TestDomainsListCommand_JQ(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "--jq", ".data[].name", "--compact"}))
	})

	assert.Equal(t, `["example.com","other.org"]`, strings.TrimSpace(output))
}

func TestDomainsListCommand_JSONLines(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "-o", "jsonl"}))
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"example.com"`)
	assert.Contains(t, lines[1], `"name":"other.org"`)
}

func TestDomainsListCommand_PageHint(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, `{"data":[`+exampleDomainJSON+`],"pagination":{"current_page":1,"per_page":1,"total_entries":2,"total_pages":2}}`))
	setupTestEnvWithHandler(t, handler)

	stdout, stderr := captureOutput(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "--per-page", "1"}))
	})

	assert.Contains(t, stdout, "example.com")
	assert.Contains(t, stderr, "Page 1 of 2 (2 domains)")
}

func TestDomainsListCommand_All(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				jsonResponse(200, `{"data":[`+otherDomainJSON+`],"pagination":{"current_page":2,"per_page":1,"total_entries":2,"total_pages":2}}`)(w, r)
				return
			}
			jsonResponse(200, `{"data":[`+exampleDomainJSON+`],"pagination":{"current_page":1,"per_page":1,"total_entries":2,"total_pages":2}}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "--all", "--jq", ".data | length"}))
	})

	assert.Equal(t, "2", strings.TrimSpace(output))
	assert.Equal(t, 2, handler.count("GET", "/v2/1010/domains"))
}

func TestDomainsListCommand_Expiring(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "--expiring", "2027-12-31", "--jq", "[.data[].name]", "--compact"}))
	})

	assert.Equal(t, `["example.com"]`, strings.TrimSpace(output))
}

func TestDomainsListCommand_ExpiringNoneMatch(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	stdout, stderr := captureOutput(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list", "--expiring", "2020-01-01"}))
	})

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No domains found")
}

func TestDomainsListCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad sort field", []string{"--sort", "size"}, "--sort must be one of"},
		{"bad sort direction", []string{"--sort", "name:up"}, "--sort must be one of"},
		{"per page too large", []string{"--per-page", "500"}, "per-page must be between"},
		{"all with page", []string{"--all", "--page", "2"}, "cannot be used together"},
		{"bad expiring", []string{"--expiring", "soon"}, "invalid expiry expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), append([]string{"domains", "list"}, tt.args...))
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitUsage, ExitCode(err))
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestDomainsGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains/example.com", jsonResponse(200, `{"data":`+exampleDomainJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "get", "Example.COM."}))
	})

	assert.Contains(t, output, "181984")
	assert.Contains(t, output, "example.com")
	assert.Contains(t, output, "Auto renew:")
}

func TestDomainsGetCommand_DashboardURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/2020/domains/example.com", jsonResponse(200, `{"data":`+exampleDomainJSON+`}`))
	setupTestEnvWithHandler(t, handler)
	t.Setenv("DNSIMPLE_ACCOUNT", "")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "get", "https://dnsimple.com/a/2020/domains/example.com/records"}))
	})

	assert.Contains(t, output, "example.com")
	assert.Equal(t, 1, handler.count("GET", "/v2/2020/domains/example.com"))
}

func TestDomainsGetCommand_DashboardURLAccountFlagWins(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains/example.com", jsonResponse(200, `{"data":`+exampleDomainJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "get", "--account", "1010", "https://dnsimple.com/a/2020/domains/example.com"}))
	})

	assert.Equal(t, 1, handler.count("GET", "/v2/1010/domains/example.com"))
}

func TestDomainsGetCommand_NotFoundSuggestsCachedNames(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	// Populate the name cache.
	_ = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list"}))
	})

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"domains", "get", "exmple.com"})
	})

	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Contains(t, stderr, "HTTP 404")
	assert.Contains(t, stderr, "Did you mean example.com?")
	assert.Equal(t, 1, handler.count("GET", "/v2/1010/domains"), "suggestions come from the cache")
}

func TestDomainsGetCommand_NotFoundJSON(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)
	t.Setenv("DNSIMPLE_NO_CACHE", "1")

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"domains", "get", "missing.com", "-o", "json"})
	})
	require.Error(t, err)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(stderr), &payload), stderr)
	assert.Equal(t, "not_found", string(payload.Error.Code))
	assert.Equal(t, 404, payload.Error.Status)
	assert.Empty(t, payload.Error.Suggestions)
}

func TestDomainsCreateCommand(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/v2/1010/domains", jsonResponse(201, `{"data":`+exampleDomainJSON+`}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "create", "example.com"}))
	})

	assert.Contains(t, output, "Created domain example.com")
	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"name":"example.com"}`, reqs[0].Body)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
}

func TestDomainsCreateCommand_ValidationError(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/v2/1010/domains", jsonResponse(400, `{"message":"Validation failed","errors":{"name":["has already been taken"]}}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"domains", "create", "example.com"})
	})

	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "Validation failed (HTTP 400)")
	assert.Contains(t, stderr, "name: has already been taken")
}

func TestDomainsCreateCommand_DryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "create", "example.com", "--dry-run"}))
	})

	assert.Contains(t, output, "Dry run: would create domain")
	assert.Contains(t, output, "POST /v2/1010/domains")
	assert.Contains(t, output, `"name": "example.com"`)
	assert.Empty(t, handler.Requests())
}

func TestDomainsCreateCommand_InvalidName(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"domains", "create", "not a domain"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestDomainsDeleteCommand(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/v2/1010/domains/example.com", noContent())
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "delete", "example.com", "--yes"}))
	})
	assert.Contains(t, output, "Deleted domain example.com")
}

func TestDomainsDeleteCommand_RequiresYes(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"domains", "delete", "example.com"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without --yes")
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.Requests())
}

func TestDomainsDeleteCommand_DryRunJSON(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "delete", "example.com", "--dry-run", "-o", "json"}))
	})

	var preview map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &preview), output)
	assert.Equal(t, "DELETE", preview["method"])
	assert.Equal(t, "/v2/1010/domains/example.com", preview["path"])
	assert.Equal(t, true, preview["dry_run"])
	assert.Empty(t, handler.Requests())
}

func TestDomainsCreateCommand_DryRunSkipsAccountLookup(t *testing.T) {
	tests := []struct {
		name    string
		account string
		shown   string
	}{
		{"token account", "", "(token's account, resolved at run time)"},
		{"email account", "ops@example.com", "ops@example.com (resolved at run time)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler().
				On("GET", "/v2/whoami", jsonResponse(200, whoamiAccountBody)).
				On("GET", "/v2/accounts", jsonResponse(200, `{"data":[{"id":1010,"email":"ops@example.com"}]}`))
			setupTestEnvWithHandler(t, handler)
			t.Setenv("DNSIMPLE_ACCOUNT", tt.account)

			output := captureStdout(t, func() {
				require.NoError(t, Execute(context.Background(), []string{"domains", "create", "example.com", "--dry-run"}))
			})

			assert.Contains(t, output, "POST /v2/:account/domains")
			assert.Contains(t, output, "account: "+tt.shown)
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"name", "name:asc", false},
		{"Expiration:DESC", "expiration:desc", false},
		{"id:asc", "id:asc", false},
		{"created", "", true},
		{"name:sideways", "", true},
	}
	for _, tt := range tests {
		got, err := parseSort(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
