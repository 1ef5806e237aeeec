// Package update compares the running build against the latest GitHub release.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	ReleasesURL = "https://api.github.com/repos/dnsimple/dnsimple-cli/releases/latest"
	Timeout     = 5 * time.Second
)

// ErrUnversioned is returned for development builds, which are never compared.
var ErrUnversioned = errors.New("unversioned build")

// Release is the subset of the GitHub release payload that matters here.
type Release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// Result is the outcome of a successful check.
type Result struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
}

// Notice is a one-line upgrade hint, or "" when nothing newer exists.
func (r *Result) Notice() string {
	if r == nil || !r.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("dnsimple-cli %s is available (you have %s): %s", r.LatestVersion, r.CurrentVersion, r.UpdateURL)
}

// Checker queries a releases endpoint.
type Checker struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
}

// NewChecker returns a Checker for the public GitHub releases endpoint.
func NewChecker(userAgent string) *Checker {
	return &Checker{URL: ReleasesURL, HTTPClient: &http.Client{Timeout: Timeout}, UserAgent: userAgent}
}

// Check compares current with the latest stable release. Drafts and
// prereleases never count as an update.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	have := canonical(current)
	if have == "" {
		return nil, ErrUnversioned
	}

	release, err := c.latest(ctx)
	if err != nil {
		return nil, err
	}
	want := canonical(release.TagName)
	if want == "" {
		return nil, fmt.Errorf("release tag %q is not a semantic version", release.TagName)
	}

	return &Result{
		CurrentVersion:  strings.TrimPrefix(have, "v"),
		LatestVersion:   strings.TrimPrefix(want, "v"),
		UpdateURL:       release.HTMLURL,
		UpdateAvailable: !release.Draft && !release.Prerelease && semver.Compare(want, have) > 0,
	}, nil
}

func (c *Checker) latest(ctx context.Context) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	return &release, nil
}

// canonical returns v as a "v"-prefixed semantic version, or "" if it is not one.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
