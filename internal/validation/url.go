// Package validation checks user-supplied endpoints and identifiers before
// they reach the API.
//
// Base URLs must use https and must not point at private networks or cloud
// metadata endpoints. Plain http to a loopback host is accepted only when
// loopback is allowed, either through DNSIMPLE_TESTING=1 or SetAllowLoopback.
package validation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

const resolveTimeout = 5 * time.Second

var allowLoopback atomic.Bool

func init() {
	allowLoopback.Store(strings.TrimSpace(os.Getenv("DNSIMPLE_TESTING")) == "1")
}

// reservedPrefixes are blocked on top of what netip.Addr.IsPrivate reports.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"), // benchmarking
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"), // documentation
}

var metadataHosts = map[string]bool{
	"169.254.169.254":          true,
	"fd00:ec2::254":            true,
	"metadata":                 true,
	"metadata.google.internal": true,
	"instance-data":            true,
}

// lookupAddrs resolves host names; replaced in tests.
var lookupAddrs = func(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

// SetAllowLoopback enables or disables plain-http loopback base URLs.
func SetAllowLoopback(enabled bool) {
	allowLoopback.Store(enabled)
}

// AllowLoopbackEnabled reports whether loopback base URLs are accepted.
func AllowLoopbackEnabled() bool {
	return allowLoopback.Load()
}

// ValidateBaseURL checks an API base URL. The URL needs an https scheme and
// a host, may not carry a query or fragment, and may not address a private
// or metadata endpoint. Host names are resolved and every address checked;
// names that do not resolve yet are accepted.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only https is allowed, got %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("URL must contain a hostname")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("base URL must not contain a query or fragment")
	}

	switch {
	case metadataHosts[host] || strings.HasSuffix(host, ".metadata.google.internal"):
		return errors.New("cloud metadata endpoints are not allowed")
	case isLoopback(host):
		if !allowLoopback.Load() {
			return errors.New("localhost URLs are not allowed")
		}
		return nil
	case u.Scheme != "https":
		return fmt.Errorf("insecure URL scheme %q: https is required", u.Scheme)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr)
	}
	return checkResolved(host)
}

func isLoopback(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Unmap().IsLoopback()
}

func checkAddr(addr netip.Addr) error {
	addr = addr.Unmap()
	switch {
	case addr.IsUnspecified():
		return fmt.Errorf("unspecified IP address %s is not allowed", addr)
	case addr.IsLoopback():
		return fmt.Errorf("loopback IP address %s is not allowed", addr)
	case addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP address %s is not allowed", addr)
	case addr.IsMulticast():
		return fmt.Errorf("multicast IP address %s is not allowed", addr)
	case addr.IsPrivate():
		return fmt.Errorf("private IP address %s is not allowed", addr)
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return fmt.Errorf("reserved IP address %s is not allowed", addr)
		}
	}
	return nil
}

func checkResolved(host string) error {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	addrs, err := lookupAddrs(ctx, host)
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if err := checkAddr(addr); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP: %w", host, err)
		}
	}
	return nil
}
