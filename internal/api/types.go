package api

import "time"

// Domain states reported by the API
const (
	DomainStateHosted     = "hosted"
	DomainStateRegistered = "registered"
	DomainStateExpired    = "expired"
)

// Account represents an account the token can act on.
type Account struct {
	ID             int       `json:"id" wire:"required"`
	Email          string    `json:"email,omitempty"`
	PlanIdentifier string    `json:"plan_identifier,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// User represents the user behind a user token.
type User struct {
	ID        int       `json:"id" wire:"required"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WhoamiData identifies the credentials in use. Account tokens carry only
// an account, user tokens only a user.
type WhoamiData struct {
	Account *Account `json:"account"`
	User    *User    `json:"user"`
}

// Domain represents a domain in an account.
type Domain struct {
	ID           int        `json:"id" wire:"required"`
	AccountID    int        `json:"account_id" wire:"required"`
	RegistrantID *int       `json:"registrant_id"`
	Name         string     `json:"name" wire:"required" validate:"required"`
	UnicodeName  string     `json:"unicode_name,omitempty"`
	State        string     `json:"state,omitempty"`
	AutoRenew    bool       `json:"auto_renew"`
	PrivateWhois bool       `json:"private_whois"`
	ExpiresAt    *time.Time `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsRegistered reports whether the domain is registered through the account.
func (d *Domain) IsRegistered() bool {
	return d.State == DomainStateRegistered
}

// DomainAttributes is the payload for creating a domain.
type DomainAttributes struct {
	Name string `json:"name"`
}

// DomainCheck is the registration availability of a domain name.
type DomainCheck struct {
	Domain    string `json:"domain" wire:"required" validate:"required"`
	Available bool   `json:"available"`
	Premium   bool   `json:"premium"`
}

// VanityNameServer is a name server under a custom (vanity) host name.
type VanityNameServer struct {
	ID        int       `json:"id" wire:"required"`
	Name      string    `json:"name" wire:"required" validate:"required"`
	IPv4      string    `json:"ipv4,omitempty"`
	IPv6      string    `json:"ipv6,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
