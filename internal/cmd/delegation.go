package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/iocontext"
	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

func newDelegationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delegation",
		Aliases: []string{"ns"},
		Short:   "Manage the name servers of registered domains",
	}

	cmd.AddCommand(newDelegationGetCmd())
	cmd.AddCommand(newDelegationSetCmd())
	cmd.AddCommand(newDelegationVanityCmd())
	cmd.AddCommand(newDelegationUnvanityCmd())

	return cmd
}

// DelegationResult is one domain's delegation in a multi-domain lookup.
type DelegationResult struct {
	Domain      string   `json:"domain"`
	NameServers []string `json:"name_servers,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func domainArgs(args []string) ([]string, error) {
	names := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, err := domainArg(arg)
		if err != nil {
			return nil, err
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

func nameServerArgs(args []string) (api.Delegation, error) {
	if err := validation.ValidateNameServers(args); err != nil {
		return nil, err
	}
	servers := make(api.Delegation, len(args))
	for i, ns := range args {
		servers[i] = validation.NormalizeDomainName(ns)
	}
	return servers, nil
}

func newDelegationGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <domain>...",
		Short: "Show the name servers a domain delegates to",
		Long: strings.TrimSpace(`
Show the name servers of one or more registered domains.

Several domains are looked up in parallel (see --concurrency); a failure for
one domain is reported without stopping the others.
`),
		Example: strings.TrimSpace(`
  dnsimple delegation get example.com
  dnsimple delegation get example.com example.net -o json
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			names, err := domainArgs(args)
			if err != nil {
				return err
			}

			s, err := getSession()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			account, err := s.account(ctx)
			if err != nil {
				return err
			}

			if len(names) == 1 {
				resp, err := s.client.Registrar().GetDomainDelegation(ctx, account, names[0])
				if err != nil {
					return withDomainSuggestions(s, account, names[0], err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, resp)
				}
				out := iocontext.From(ctx).Stdout
				for _, ns := range resp.Data {
					_, _ = fmt.Fprintln(out, ns)
				}
				return nil
			}

			results := runBulk(ctx, names, flags.Concurrency, func(ctx context.Context, domain string) ([]string, error) {
				resp, err := s.client.Registrar().GetDomainDelegation(ctx, account, domain)
				if err != nil {
					return nil, err
				}
				return resp.Data, nil
			})

			rows := make([]DelegationResult, len(results))
			for i, r := range results {
				rows[i] = DelegationResult{Domain: r.Key, NameServers: r.Data}
				if r.Error != nil {
					rows[i].Error = r.Error.Error()
				}
			}

			_, failed := countResults(results)
			if isJSON(cmd) {
				if err := printJSON(cmd, rows); err != nil {
					return err
				}
			} else {
				table := newFormatter(cmd).Table("DOMAIN", "NAME SERVERS")
				for _, row := range rows {
					value := strings.Join(row.NameServers, ", ")
					if row.Error != "" {
						value = "error: " + row.Error
					}
					table.Row(row.Domain, value)
				}
				if err := table.Flush(); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("delegation lookup failed for %d of %d domains", failed, len(rows))
			}
			return nil
		}),
	}
}

func newDelegationSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <domain> <name-server>...",
		Short: "Replace the name servers of a registered domain",
		Example: strings.TrimSpace(`
  dnsimple delegation set example.com ns1.dnsimple.com ns2.dnsimple-edge.net
  dnsimple delegation set example.com ns1.example.net ns2.example.net --dry-run
`),
		Args: cobra.MinimumNArgs(1 + validation.MinNameServers),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			servers, err := nameServerArgs(args[1:])
			if err != nil {
				return err
			}
			return mutate(cmd, domain, "change delegation", func(account string) *api.RequestBuilder {
				return api.ChangeDelegationRequest(account, domain, servers)
			}, func(ctx context.Context, s *session, account string) error {
				resp, err := s.client.Registrar().ChangeDomainDelegation(ctx, account, domain, servers)
				if err != nil {
					return withDomainSuggestions(s, account, domain, err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, resp)
				}
				printAction(cmd, "Delegated", domain, "to "+strings.Join(resp.Data, ", "))
				return nil
			})
		}),
	}
}

func newDelegationVanityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vanity <domain> <name-server>...",
		Short: "Delegate a registered domain to vanity name servers",
		Long: strings.TrimSpace(`
Delegate a registered domain to vanity name servers.

The account must have vanity name servers enabled; otherwise the API answers
412 and the command exits with code 6.
`),
		Args: cobra.MinimumNArgs(1 + validation.MinNameServers),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			servers, err := nameServerArgs(args[1:])
			if err != nil {
				return err
			}
			return mutate(cmd, domain, "change delegation to vanity name servers", func(account string) *api.RequestBuilder {
				return api.ChangeDelegationToVanityRequest(account, domain, servers)
			}, func(ctx context.Context, s *session, account string) error {
				resp, err := s.client.Registrar().ChangeDomainDelegationToVanity(ctx, account, domain, servers)
				if err != nil {
					return withDomainSuggestions(s, account, domain, err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, resp)
				}
				return printVanityNameServers(cmd, resp.Data)
			})
		}),
	}
}

func newDelegationUnvanityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unvanity <domain>",
		Short: "Move a registered domain off vanity name servers",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, domain, "change delegation from vanity name servers", func(account string) *api.RequestBuilder {
				return api.ChangeDelegationFromVanityRequest(account, domain)
			}, func(ctx context.Context, s *session, account string) error {
				if err := s.client.Registrar().ChangeDomainDelegationFromVanity(ctx, account, domain); err != nil {
					return withDomainSuggestions(s, account, domain, err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"domain": domain, "vanity": false})
				}
				printAction(cmd, "Removed", "vanity delegation from", domain)
				return nil
			})
		}),
	}
}

func printVanityNameServers(cmd *cobra.Command, servers []api.VanityNameServer) error {
	f := newFormatter(cmd)
	if len(servers) == 0 {
		f.Note("No vanity name servers returned")
		return nil
	}
	table := f.Table("NAME", "IPV4", "IPV6")
	for _, ns := range servers {
		table.Row(ns.Name, valueOrDash(ns.IPv4), valueOrDash(ns.IPv6))
	}
	return table.Flush()
}
