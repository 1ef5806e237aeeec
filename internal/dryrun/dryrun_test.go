package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsimple/dnsimple-cli/internal/api"
)

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(context.Background()))
	assert.True(t, Enabled(Enable(context.Background(), true)))
	assert.False(t, Enabled(Enable(context.Background(), false)))
}

func TestFromRequest(t *testing.T) {
	req, err := api.ChangeDelegationRequest("1010", "example.com", api.Delegation{"ns1.example.com", "ns2.example.com"}).Build()
	require.NoError(t, err)

	p := FromRequest("change delegation of example.com", req)
	assert.Equal(t, "PUT", p.Method)
	assert.Equal(t, "/v2/1010/registrar/domains/example.com/delegation", p.Target())
	assert.JSONEq(t, `["ns1.example.com","ns2.example.com"]`, string(p.Body))
	assert.True(t, p.DryRun)

	encoded, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"body":["ns1.example.com","ns2.example.com"]`)
}

func TestFromRequest_NoBody(t *testing.T) {
	req, err := api.DeleteDomainRequest("1010", "example.com").Build()
	require.NoError(t, err)

	p := FromRequest("delete domain example.com", req)
	assert.Nil(t, p.Body)

	encoded, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"body"`)
}

func TestPreview_Target(t *testing.T) {
	p := &Preview{Path: "/v2/1010/domains", Query: "page=2"}
	assert.Equal(t, "/v2/1010/domains?page=2", p.Target())
}

func TestPreview_WriteText(t *testing.T) {
	req, err := api.ChangeDelegationToVanityRequest("1010", "example.com", api.Delegation{"ns1.example.com"}).Build()
	require.NoError(t, err)

	p := FromRequest("delegate example.com to vanity name servers", req)
	p.Details = map[string]any{"zeta": 1, "alpha": 2}

	var buf bytes.Buffer
	require.NoError(t, p.WriteText(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Dry run: would delegate example.com to vanity name servers\n"))
	assert.Contains(t, out, "  PUT /v2/1010/registrar/domains/example.com/delegation/vanity\n")
	assert.Contains(t, out, `"ns1.example.com"`)
	assert.Less(t, strings.Index(out, "alpha: 2"), strings.Index(out, "zeta: 1"))
	assert.True(t, strings.HasSuffix(out, "Nothing was sent.\n"))
}
