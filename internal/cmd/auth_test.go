package cmd

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsimple/dnsimple-cli/internal/config"
)

func TestAuthLoginCommand(t *testing.T) {
	handler := newRouteHandler().On("GET", "/v2/whoami", jsonResponse(200, whoamiAccountBody))
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "login", "--token", "stored-token-1234"}))
	})

	assert.Contains(t, output, "Logged in as ops@example.com (account 1010) (profile default)")

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer stored-token-1234", reqs[0].Header.Get("Authorization"))

	account, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, "stored-token-1234", account.Token)
	assert.Equal(t, "1010", account.AccountID)
	assert.Equal(t, env.server.URL, account.BaseURL)
	assert.False(t, account.Sandbox)
}

func TestAuthLoginCommand_UserTokenWithAccount(t *testing.T) {
	handler := newRouteHandler().On("GET", "/v2/whoami", jsonResponse(200, whoamiUserBody))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"auth", "login", "-t", "user-token-5678", "--account", "2020", "--profile", "work", "-o", "json"})
		require.NoError(t, err)
	})

	var status AuthStatus
	require.NoError(t, json.Unmarshal([]byte(output), &status), output)
	assert.Equal(t, "work", status.Profile)
	assert.Equal(t, "2020", status.AccountID)
	assert.Equal(t, "owner@example.com", status.Email)
	assert.Equal(t, "****5678", status.Token)
	assert.True(t, status.Verified)

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)
}

func TestAuthLoginCommand_TokenFromStdin(t *testing.T) {
	handler := newRouteHandler().On("GET", "/v2/whoami", jsonResponse(200, whoamiAccountBody))
	setupTestEnvWithHandler(t, handler)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, _ = w.WriteString("piped-token-9999\n")
	_ = w.Close()
	oldStdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = oldStdin })

	_ = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "login", "--token", "-"}))
	})

	account, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, "piped-token-9999", account.Token)
}

func TestAuthLoginCommand_RejectedToken(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/v2/whoami", jsonResponse(401, `{"message":"Authentication failed"}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"auth", "login", "--token", "bad-token"})
	})

	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "HTTP 401")

	_, loadErr := config.LoadProfile("default")
	assert.ErrorIs(t, loadErr, config.ErrNotConfigured)
}

func TestAuthLoginCommand_MissingToken(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"auth", "login"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--token is required")
	assert.Empty(t, handler.Requests())
}

func TestAuthStatusCommand_FromProfile(t *testing.T) {
	handler := newRouteHandler().On("GET", "/v2/whoami", jsonResponse(200, whoamiAccountBody))
	env := setupTestEnvWithHandler(t, handler)
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvAccount, "")

	require.NoError(t, config.SaveProfile("ops", config.Account{Token: "profile-token-4321", AccountID: "1010", BaseURL: env.server.URL}))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "status", "--verify", "-o", "json"}))
	})

	var status AuthStatus
	require.NoError(t, json.Unmarshal([]byte(output), &status), output)
	assert.Equal(t, "ops", status.Profile)
	assert.Equal(t, "1010", status.AccountID)
	assert.Equal(t, "ops@example.com", status.Email)
	assert.Equal(t, env.server.URL, status.BaseURL)
	assert.Equal(t, "****4321", status.Token)
	assert.NotContains(t, output, "profile-token-4321")
	assert.True(t, status.Verified)
}

func TestAuthStatusCommand_Text(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "status"}))
	})

	assert.Contains(t, output, "Profile:")
	assert.Contains(t, output, "1010")
	assert.Contains(t, output, "****oken")
	assert.NotContains(t, output, "test-token")
	assert.NotContains(t, output, "Verified:")
	assert.Empty(t, handler.Requests())
}

func TestAuthLogoutCommand(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	require.NoError(t, config.SaveProfile("ops", config.Account{Token: "profile-token-4321", AccountID: "1010"}))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "logout", "--profile", "ops"}))
	})

	assert.Contains(t, output, "Removed credentials for profile ops")
	_, err := config.LoadProfile("ops")
	assert.ErrorIs(t, err, config.ErrNotConfigured)

	profiles, err := config.ListProfiles()
	require.NoError(t, err)
	assert.NotContains(t, profiles, "ops")
}

func TestAuthProfilesCommand(t *testing.T) {
	env := setupTestEnvWithHandler(t, newRouteHandler())

	require.NoError(t, config.SaveProfile("work", config.Account{Token: "work-token", AccountID: "1010"}))
	require.NoError(t, config.SaveProfile("sandbox", config.Account{Token: "sandbox-token", AccountID: "2020", Sandbox: true}))
	require.NoError(t, config.SaveProfile("local", config.Account{Token: "local-token", BaseURL: env.server.URL}))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "profiles"}))
	})
	assert.Contains(t, output, "PROFILE")
	assert.Regexp(t, `\*\s+local\s+-\s+`+env.server.URL, output)
	assert.Regexp(t, `\s+sandbox\s+2020\s+https://api.sandbox.dnsimple.com`, output)
	assert.NotContains(t, output, "work-token")

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "profiles", "-o", "json"}))
	})
	var entries []ProfileEntry
	require.NoError(t, json.Unmarshal([]byte(output), &entries), output)
	require.Len(t, entries, 3)
	assert.Equal(t, ProfileEntry{Name: "work", AccountID: "1010", BaseURL: "https://api.dnsimple.com"}, entries[0])
	assert.True(t, entries[2].Current)
}

func TestAuthProfilesCommand_Empty(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "profiles"}))
	})
	assert.Contains(t, output, "No profiles stored")
}

func TestAuthUseCommand(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	require.NoError(t, config.SaveProfile("work", config.Account{Token: "work-token", AccountID: "1010"}))
	require.NoError(t, config.SaveProfile("sandbox", config.Account{Token: "sandbox-token", AccountID: "2020"}))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "use", "work"}))
	})
	assert.Contains(t, output, "Switched to profile work")

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)
}

func TestAuthUseCommand_UnknownProfile(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	require.NoError(t, config.SaveProfile("work", config.Account{Token: "work-token"}))

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"auth", "use", "staging"})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownProfile)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `unknown profile "staging" (known: work)`)
}
