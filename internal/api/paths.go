package api

import (
	"net/url"
	"strings"
)

// joinPath builds "/seg1/seg2/..." with every segment path-escaped.
// Identifiers are not validated; an empty segment surfaces later as an API error.
func joinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func whoamiPath() string {
	return "/whoami"
}

func accountsPath() string {
	return "/accounts"
}

// accountPath returns the base path for account-scoped API calls
func accountPath(account string, segments ...string) string {
	return joinPath(append([]string{account}, segments...)...)
}

// domainPath returns /{account}/domains, or /{account}/domains/{domain} when domain is set.
func domainPath(account, domain string) string {
	if domain == "" {
		return accountPath(account, "domains")
	}
	return accountPath(account, "domains", domain)
}

func registrarDomainPath(account, domain string, segments ...string) string {
	return accountPath(account, append([]string{"registrar", "domains", domain}, segments...)...)
}

func vanityNameServersPath(account, domain string) string {
	return accountPath(account, "vanity", domain)
}

func registrarDelegationPath(account, domain string) string {
	return registrarDomainPath(account, domain, "delegation")
}

func vanityDelegationPath(account, domain string) string {
	return registrarDomainPath(account, domain, "delegation", "vanity")
}

func autoRenewalPath(account, domain string) string {
	return registrarDomainPath(account, domain, "auto_renewal")
}
