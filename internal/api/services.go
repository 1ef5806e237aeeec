package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so it satisfies Requester.

type IdentityService struct{ *Client }

type AccountsService struct{ *Client }

type DomainsService struct{ *Client }

type RegistrarService struct{ *Client }

type VanityNameServersService struct{ *Client }

func (c *Client) Identity() IdentityService {
	return IdentityService{c}
}

func (c *Client) Accounts() AccountsService {
	return AccountsService{c}
}

func (c *Client) Domains() DomainsService {
	return DomainsService{c}
}

func (c *Client) Registrar() RegistrarService {
	return RegistrarService{c}
}

func (c *Client) VanityNameServers() VanityNameServersService {
	return VanityNameServersService{c}
}
