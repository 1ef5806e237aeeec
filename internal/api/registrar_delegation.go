package api

import "context"

// GetDomainDelegation lists the name servers a registered domain delegates to.
func (s RegistrarService) GetDomainDelegation(ctx context.Context, account, domain string) (*DelegationResponse, error) {
	return getDomainDelegation(ctx, s, account, domain)
}

func getDomainDelegation(ctx context.Context, r Requester, account, domain string) (*DelegationResponse, error) {
	return doList[string](ctx, r, NewRequest(registrarDelegationPath(account, domain)))
}

// ChangeDomainDelegation replaces the name servers of a registered domain.
func (s RegistrarService) ChangeDomainDelegation(ctx context.Context, account, domain string, delegation Delegation) (*DelegationResponse, error) {
	return changeDomainDelegation(ctx, s, account, domain, delegation)
}

func changeDomainDelegation(ctx context.Context, r Requester, account, domain string, delegation Delegation) (*DelegationResponse, error) {
	return doList[string](ctx, r, ChangeDelegationRequest(account, domain, delegation))
}

// ChangeDelegationRequest is the request ChangeDomainDelegation sends.
func ChangeDelegationRequest(account, domain string, delegation Delegation) *RequestBuilder {
	return NewRequest(registrarDelegationPath(account, domain)).Method(MethodPut).JSON(delegationPayload(delegation))
}

// ChangeDomainDelegationToVanity delegates a domain to vanity name servers.
// Accounts without vanity name server support get a 412 RequestError
// (see IsPreconditionFailed).
func (s RegistrarService) ChangeDomainDelegationToVanity(ctx context.Context, account, domain string, delegation Delegation) (*VanityDelegationResponse, error) {
	return changeDomainDelegationToVanity(ctx, s, account, domain, delegation)
}

func changeDomainDelegationToVanity(ctx context.Context, r Requester, account, domain string, delegation Delegation) (*VanityDelegationResponse, error) {
	return doList[VanityNameServer](ctx, r, ChangeDelegationToVanityRequest(account, domain, delegation))
}

// ChangeDelegationToVanityRequest is the request ChangeDomainDelegationToVanity sends.
func ChangeDelegationToVanityRequest(account, domain string, delegation Delegation) *RequestBuilder {
	return NewRequest(vanityDelegationPath(account, domain)).Method(MethodPut).JSON(delegationPayload(delegation))
}

// ChangeDomainDelegationFromVanity moves a domain off vanity name servers.
// The API answers 204 with no body.
func (s RegistrarService) ChangeDomainDelegationFromVanity(ctx context.Context, account, domain string) error {
	return changeDomainDelegationFromVanity(ctx, s, account, domain)
}

func changeDomainDelegationFromVanity(ctx context.Context, r Requester, account, domain string) error {
	return doEmpty(ctx, r, ChangeDelegationFromVanityRequest(account, domain))
}

// ChangeDelegationFromVanityRequest is the request ChangeDomainDelegationFromVanity sends.
func ChangeDelegationFromVanityRequest(account, domain string) *RequestBuilder {
	return NewRequest(vanityDelegationPath(account, domain)).Method(MethodDelete)
}

// delegationPayload keeps an empty delegation on the wire as [] rather than null.
func delegationPayload(d Delegation) Delegation {
	if d == nil {
		return Delegation{}
	}
	return d
}
