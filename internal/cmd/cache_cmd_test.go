package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePathCommand(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"cache", "path"}))
	})

	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "dnsimple-cli")
	assert.Equal(t, want, strings.TrimSpace(output))
}

func TestCacheClearCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list"}))
	})

	dir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "dnsimple-cli")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "domains list should populate the cache")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"cache", "clear"}))
	})
	assert.Equal(t, "Removed 1 cache entry\n", output)

	entries, _ = os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestCacheCommands_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRouteHandler().
		On("GET", "/v2/1010/domains", jsonResponse(200, domainsSinglePage))
	setupTestEnvWithHandler(t, handler)
	t.Setenv("DNSIMPLE_CACHE_URL", "redis://"+mr.Addr())

	_ = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"domains", "list"}))
	})
	require.Len(t, mr.Keys(), 1)
	assert.True(t, strings.HasPrefix(mr.Keys()[0], "dnsimple-cli:cache:domains-"))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"cache", "path"}))
	})
	assert.Equal(t, "redis://"+mr.Addr()+"\n", output)

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"cache", "clear", "-o", "json"}))
	})
	var payload struct {
		Removed int `json:"removed"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &payload), output)
	assert.Equal(t, 1, payload.Removed)
	assert.Empty(t, mr.Keys())
}
