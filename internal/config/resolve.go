package config

import (
	"fmt"
	"strings"
	"time"
)

// Production and sandbox API hosts.
const (
	ProductionBaseURL = "https://api.dnsimple.com"
	SandboxBaseURL    = "https://api.sandbox.dnsimple.com"
)

// Overrides are per-invocation values from command-line flags. Zero values
// leave the stored or configured value in place.
type Overrides struct {
	Profile string
	Account string
	BaseURL string
	Sandbox bool
	Timeout time.Duration
}

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL   string
	Token     string
	AccountID string
	Timeout   time.Duration
}

// ResolveClientConfig merges, lowest to highest precedence, the settings
// file, the stored profile (or DNSIMPLE_* environment), and flag overrides.
func ResolveClientConfig(settings Settings, o Overrides) (ClientConfig, error) {
	var account Account
	var err error
	if o.Profile != "" {
		account, err = LoadProfile(o.Profile)
	} else {
		account, err = LoadAccount()
	}
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		BaseURL:   settings.BaseURL,
		Token:     account.Token,
		AccountID: account.AccountID,
		Timeout:   settings.Timeout,
	}
	if settings.Sandbox {
		cfg.BaseURL = SandboxBaseURL
	}
	if account.Sandbox {
		cfg.BaseURL = SandboxBaseURL
	}
	if account.BaseURL != "" {
		cfg.BaseURL = account.BaseURL
	}

	if o.Sandbox {
		cfg.BaseURL = SandboxBaseURL
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Account != "" {
		cfg.AccountID = o.Account
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = ProductionBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Token == "" {
		return ClientConfig{}, fmt.Errorf("API token not configured (set %s or run 'dnsimple auth login')", EnvToken)
	}
	return cfg, nil
}

// RequireAccount returns the account ID or an error naming how to set it.
func (c ClientConfig) RequireAccount() (string, error) {
	if c.AccountID == "" {
		return "", fmt.Errorf("account not configured (use --account, set %s, or run 'dnsimple auth login --account')", EnvAccount)
	}
	return c.AccountID, nil
}
