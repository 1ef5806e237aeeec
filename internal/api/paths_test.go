package api

import "testing"

func TestPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"whoami", whoamiPath(), "/whoami"},
		{"accounts", accountsPath(), "/accounts"},
		{"account root", accountPath("1010"), "/1010"},
		{"domain collection", domainPath("1010", ""), "/1010/domains"},
		{"domain member", domainPath("1010", "example.com"), "/1010/domains/example.com"},
		{"delegation", registrarDelegationPath("1010", "example.com"), "/1010/registrar/domains/example.com/delegation"},
		{"vanity delegation", vanityDelegationPath("1010", "example.com"), "/1010/registrar/domains/example.com/delegation/vanity"},
		{"auto renewal", autoRenewalPath("1010", "example.com"), "/1010/registrar/domains/example.com/auto_renewal"},
		{"domain check", registrarDomainPath("1010", "example.com", "check"), "/1010/registrar/domains/example.com/check"},
		{"vanity name servers", vanityNameServersPath("1010", "example.com"), "/1010/vanity/example.com"},
		{"escaped segment", domainPath("1010", "a b/c"), "/1010/domains/a%20b%2Fc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
