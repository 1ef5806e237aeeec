package api

import "strconv"

// Response wraps a single decoded resource.
type Response[T any] struct {
	Data T `json:"data"`
}

// ListResponse wraps a list of resources in the order the server sent them.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// PaginatedResponse is a ListResponse plus pagination metadata.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page a PaginatedResponse holds.
type Pagination struct {
	CurrentPage  int `json:"current_page" wire:"required" validate:"min=1"`
	PerPage      int `json:"per_page" wire:"required" validate:"min=1"`
	TotalEntries int `json:"total_entries" wire:"required" validate:"min=0"`
	TotalPages   int `json:"total_pages" wire:"required" validate:"min=0"`
}

// HasMore reports whether pages remain after this one.
func (p Pagination) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// ListOptions are the common query options of paginated list endpoints.
type ListOptions struct {
	Page    int
	PerPage int
	Sort    string
}

func (o *ListOptions) apply(b *RequestBuilder) {
	if o == nil {
		return
	}
	if o.Sort != "" {
		b.Query("sort", o.Sort)
	}
	if o.Page > 0 {
		b.Query("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		b.Query("per_page", strconv.Itoa(o.PerPage))
	}
}

// Delegation is the ordered set of name servers assigned to a domain.
type Delegation []string

// DelegationResponse is the envelope of delegation reads and updates.
type DelegationResponse = ListResponse[string]

// VanityDelegationResponse is the envelope of vanity delegation updates.
type VanityDelegationResponse = ListResponse[VanityNameServer]
