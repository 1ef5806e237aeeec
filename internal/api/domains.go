package api

import "context"

// DomainResponse is the envelope of a single domain.
type DomainResponse = Response[Domain]

// DomainsResponse is the envelope of a page of domains.
type DomainsResponse = PaginatedResponse[Domain]

// DomainListOptions filter and page the domain list.
type DomainListOptions struct {
	// NameLike restricts results to names containing the string.
	NameLike string
	ListOptions
}

// List retrieves one page of domains in the account.
func (s DomainsService) List(ctx context.Context, account string, opts *DomainListOptions) (*DomainsResponse, error) {
	return listDomains(ctx, s, account, opts)
}

func listDomains(ctx context.Context, r Requester, account string, opts *DomainListOptions) (*DomainsResponse, error) {
	b := NewRequest(domainPath(account, ""))
	if opts != nil {
		if opts.NameLike != "" {
			b.Query("name_like", opts.NameLike)
		}
		opts.ListOptions.apply(b)
	}
	return doPaginated[Domain](ctx, r, b)
}

// ListAll walks every page and returns all domains in server order.
func (s DomainsService) ListAll(ctx context.Context, account string, opts *DomainListOptions) ([]Domain, error) {
	return listAllDomains(ctx, s, account, opts)
}

func listAllDomains(ctx context.Context, r Requester, account string, opts *DomainListOptions) ([]Domain, error) {
	pageOpts := DomainListOptions{}
	if opts != nil {
		pageOpts = *opts
	}
	if pageOpts.Page < 1 {
		pageOpts.Page = 1
	}

	var all []Domain
	for {
		resp, err := listDomains(ctx, r, account, &pageOpts)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if !resp.Pagination.HasMore() {
			return all, nil
		}
		pageOpts.Page = resp.Pagination.CurrentPage + 1
	}
}

// Get retrieves a domain by name or ID.
func (s DomainsService) Get(ctx context.Context, account, domain string) (*DomainResponse, error) {
	return getDomain(ctx, s, account, domain)
}

func getDomain(ctx context.Context, r Requester, account, domain string) (*DomainResponse, error) {
	return doObject[Domain](ctx, r, NewRequest(domainPath(account, domain)))
}

// Create adds a domain to the account.
func (s DomainsService) Create(ctx context.Context, account string, attrs DomainAttributes) (*DomainResponse, error) {
	return createDomain(ctx, s, account, attrs)
}

func createDomain(ctx context.Context, r Requester, account string, attrs DomainAttributes) (*DomainResponse, error) {
	return doObject[Domain](ctx, r, CreateDomainRequest(account, attrs))
}

// CreateDomainRequest is the request Create sends.
func CreateDomainRequest(account string, attrs DomainAttributes) *RequestBuilder {
	return NewRequest(domainPath(account, "")).Method(MethodPost).JSON(attrs)
}

// Delete removes a domain from the account.
func (s DomainsService) Delete(ctx context.Context, account, domain string) error {
	return deleteDomain(ctx, s, account, domain)
}

func deleteDomain(ctx context.Context, r Requester, account, domain string) error {
	return doEmpty(ctx, r, DeleteDomainRequest(account, domain))
}

// DeleteDomainRequest is the request Delete sends.
func DeleteDomainRequest(account, domain string) *RequestBuilder {
	return NewRequest(domainPath(account, domain)).Method(MethodDelete)
}
