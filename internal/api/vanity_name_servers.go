package api

import "context"

// VanityNameServersResponse is the envelope of the vanity name servers of a domain.
type VanityNameServersResponse = ListResponse[VanityNameServer]

// Enable turns on vanity name servers for a domain and returns them.
func (s VanityNameServersService) Enable(ctx context.Context, account, domain string) (*VanityNameServersResponse, error) {
	return enableVanityNameServers(ctx, s, account, domain)
}

func enableVanityNameServers(ctx context.Context, r Requester, account, domain string) (*VanityNameServersResponse, error) {
	return doList[VanityNameServer](ctx, r, EnableVanityNameServersRequest(account, domain))
}

// EnableVanityNameServersRequest is the request Enable sends.
func EnableVanityNameServersRequest(account, domain string) *RequestBuilder {
	return NewRequest(vanityNameServersPath(account, domain)).Method(MethodPut)
}

// Disable turns off vanity name servers for a domain.
func (s VanityNameServersService) Disable(ctx context.Context, account, domain string) error {
	return doEmpty(ctx, s, DisableVanityNameServersRequest(account, domain))
}

// DisableVanityNameServersRequest is the request Disable sends.
func DisableVanityNameServersRequest(account, domain string) *RequestBuilder {
	return NewRequest(vanityNameServersPath(account, domain)).Method(MethodDelete)
}
