package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/api"
)

func newVanityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vanity",
		Short: "Enable or disable vanity name servers for a domain",
	}

	cmd.AddCommand(newVanityEnableCmd())
	cmd.AddCommand(newVanityDisableCmd())

	return cmd
}

func newVanityEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <domain>",
		Short: "Enable vanity name servers and list them",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, domain, "enable vanity name servers", func(account string) *api.RequestBuilder {
				return api.EnableVanityNameServersRequest(account, domain)
			}, func(ctx context.Context, s *session, account string) error {
				resp, err := s.client.VanityNameServers().Enable(ctx, account, domain)
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

func newVanityDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <domain>",
		Short: "Disable vanity name servers",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, domain, "disable vanity name servers", func(account string) *api.RequestBuilder {
				return api.DisableVanityNameServersRequest(account, domain)
			}, func(ctx context.Context, s *session, account string) error {
				if err := s.client.VanityNameServers().Disable(ctx, account, domain); err != nil {
					return withDomainSuggestions(s, account, domain, err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"domain": domain, "vanity_name_servers": false})
				}
				printAction(cmd, "Disabled", "vanity name servers for", domain)
				return nil
			})
		}),
	}
}
