package api

import "context"

// WhoamiResponse is the envelope of the whoami endpoint.
type WhoamiResponse = Response[WhoamiData]

// Whoami retrieves the account or user the token belongs to.
func (s IdentityService) Whoami(ctx context.Context) (*WhoamiResponse, error) {
	return whoami(ctx, s)
}

func whoami(ctx context.Context, r Requester) (*WhoamiResponse, error) {
	return doObject[WhoamiData](ctx, r, NewRequest(whoamiPath()))
}
