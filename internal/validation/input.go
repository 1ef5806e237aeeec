package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxDomainLength    = 253
	MinNameServers     = 2
	MaxNameServers     = 13
	MaxAccountIDLength = 20
	MaxPerPage         = 100
)

var validate = validator.New()

// NormalizeDomainName lowercases a domain name and drops a trailing dot.
func NormalizeDomainName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}

// ValidateDomainName checks that name is a fully qualified ASCII domain name.
// Internationalized names must be passed in their punycode form.
func ValidateDomainName(name string) error {
	name = NormalizeDomainName(name)
	if name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}
	if len(name) > MaxDomainLength {
		return fmt.Errorf("domain name exceeds maximum length of %d characters (got %d)", MaxDomainLength, len(name))
	}
	if err := validate.Var(name, "fqdn"); err != nil {
		return fmt.Errorf("invalid domain name %q", name)
	}
	return nil
}

// ValidateNameServers checks a delegation: between MinNameServers and
// MaxNameServers distinct, fully qualified host names.
func ValidateNameServers(servers []string) error {
	if len(servers) < MinNameServers {
		return fmt.Errorf("at least %d name servers are required (got %d)", MinNameServers, len(servers))
	}
	if len(servers) > MaxNameServers {
		return fmt.Errorf("at most %d name servers are allowed (got %d)", MaxNameServers, len(servers))
	}

	seen := make(map[string]bool, len(servers))
	var errs []error
	for _, s := range servers {
		normalized := NormalizeDomainName(s)
		if err := ValidateDomainName(normalized); err != nil {
			errs = append(errs, fmt.Errorf("name server: %w", err))
			continue
		}
		if seen[normalized] {
			errs = append(errs, fmt.Errorf("duplicate name server %q", normalized))
			continue
		}
		seen[normalized] = true
	}
	return errors.Join(errs...)
}

// ValidateAccountID checks that id is a positive numeric account identifier.
func ValidateAccountID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("account ID cannot be empty (use --account or DNSIMPLE_ACCOUNT)")
	}
	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("account ID exceeds maximum length of %d characters", MaxAccountIDLength)
	}
	if _, err := ParsePositiveInt(id, "account ID"); err != nil {
		return err
	}
	return nil
}

// ValidatePerPage checks a page size for list endpoints. Zero means the server default.
func ValidatePerPage(n int) error {
	if n < 0 || n > MaxPerPage {
		return fmt.Errorf("per-page must be between 1 and %d", MaxPerPage)
	}
	return nil
}

// ParsePositiveInt parses a string as a positive integer ID.
func ParsePositiveInt(s string, fieldName string) (int, error) {
	s = strings.TrimSpace(s)
	id64, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	if id64 <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", fieldName)
	}
	return int(id64), nil
}
