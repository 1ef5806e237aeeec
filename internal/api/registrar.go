package api

import "context"

// DomainCheckResponse is the envelope of a registration availability check.
type DomainCheckResponse = Response[DomainCheck]

// CheckDomain reports whether a domain name can be registered.
func (s RegistrarService) CheckDomain(ctx context.Context, account, domain string) (*DomainCheckResponse, error) {
	return checkDomain(ctx, s, account, domain)
}

func checkDomain(ctx context.Context, r Requester, account, domain string) (*DomainCheckResponse, error) {
	return doObject[DomainCheck](ctx, r, NewRequest(registrarDomainPath(account, domain, "check")))
}

// EnableAutoRenewal turns on automatic renewal for a registered domain.
func (s RegistrarService) EnableAutoRenewal(ctx context.Context, account, domain string) error {
	return doEmpty(ctx, s, AutoRenewalRequest(account, domain, true))
}

// DisableAutoRenewal turns off automatic renewal for a registered domain.
func (s RegistrarService) DisableAutoRenewal(ctx context.Context, account, domain string) error {
	return doEmpty(ctx, s, AutoRenewalRequest(account, domain, false))
}

// AutoRenewalRequest is the request EnableAutoRenewal (enable) or
// DisableAutoRenewal sends.
func AutoRenewalRequest(account, domain string, enable bool) *RequestBuilder {
	method := MethodDelete
	if enable {
		method = MethodPut
	}
	return NewRequest(autoRenewalPath(account, domain)).Method(method)
}
