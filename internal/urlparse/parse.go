// Package urlparse extracts the account and domain from DNSimple web app URLs
// so they can be pasted wherever a domain argument is expected.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ParsedURL is the account and domain a dashboard URL points at.
type ParsedURL struct {
	Host      string
	AccountID int
	Domain    string
	Section   string // trailing page such as "records" or "delegation", "" for the overview
}

// pathPattern matches /a/{account}/domains/{domain}[/{section}[/...]].
// Registrar pages use /a/{account}/registrar/domains/{domain}.
var pathPattern = regexp.MustCompile(`^/a/(\d+)/(?:registrar/)?domains/([^/]+)(?:/([a-z_-]+))?(?:/.*)?$`)

// LooksLikeURL reports whether s should be parsed as a URL rather than taken
// as a bare domain name.
func LooksLikeURL(s string) bool {
	return strings.Contains(s, "://")
}

// Parse extracts the account and domain from a URL such as
// https://dnsimple.com/a/1010/domains/example.com/records.
func Parse(rawURL string) (*ParsedURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}

	matches := pathPattern.FindStringSubmatch(parsed.Path)
	if matches == nil {
		return nil, fmt.Errorf("unrecognized DNSimple URL %q: expected /a/{account}/domains/{domain}", rawURL)
	}

	accountID, err := strconv.Atoi(matches[1])
	if err != nil || accountID <= 0 {
		return nil, fmt.Errorf("invalid account ID %q in URL", matches[1])
	}

	domain, err := url.PathUnescape(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid domain in URL: %w", err)
	}

	return &ParsedURL{
		Host:      parsed.Host,
		AccountID: accountID,
		Domain:    strings.ToLower(domain),
		Section:   matches[3],
	}, nil
}

// Account returns the account ID as the string form the API paths use.
func (p *ParsedURL) Account() string {
	return strconv.Itoa(p.AccountID)
}
