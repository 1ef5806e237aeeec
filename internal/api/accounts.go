package api

import "context"

// AccountsResponse is the envelope of the accounts list.
type AccountsResponse = ListResponse[Account]

// List retrieves the accounts the token can access. Account tokens see a
// single account; user tokens see every account the user belongs to.
func (s AccountsService) List(ctx context.Context) (*AccountsResponse, error) {
	return listAccounts(ctx, s)
}

func listAccounts(ctx context.Context, r Requester) (*AccountsResponse, error) {
	return doList[Account](ctx, r, NewRequest(accountsPath()))
}
