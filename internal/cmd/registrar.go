package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/api"
)

func newRegistrarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registrar",
		Aliases: []string{"reg"},
		Short:   "Registrar operations",
	}

	cmd.AddCommand(newRegistrarCheckCmd())
	cmd.AddCommand(newRegistrarAutoRenewCmd())

	return cmd
}

func newRegistrarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <domain>",
		Short: "Check whether a domain can be registered",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
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

			resp, err := s.client.Registrar().CheckDomain(ctx, account, domain)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, resp)
			}
			check := resp.Data
			state := "not available"
			if check.Available {
				state = "available"
			}
			if check.Premium {
				state += " (premium)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", check.Domain, state)
			return nil
		}),
	}
}

func newRegistrarAutoRenewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auto-renew",
		Aliases: []string{"autorenew"},
		Short:   "Toggle automatic renewal of a registered domain",
	}

	cmd.AddCommand(newAutoRenewToggleCmd(true))
	cmd.AddCommand(newAutoRenewToggleCmd(false))

	return cmd
}

func newAutoRenewToggleCmd(enable bool) *cobra.Command {
	use, short := "disable <domain>", "Disable auto-renewal"
	if enable {
		use, short = "enable <domain>", "Enable auto-renewal"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain, err := domainArg(args[0])
			if err != nil {
				return err
			}
			operation := "disable auto-renewal"
			if enable {
				operation = "enable auto-renewal"
			}
			return mutate(cmd, domain, operation, func(account string) *api.RequestBuilder {
				return api.AutoRenewalRequest(account, domain, enable)
			}, func(ctx context.Context, s *session, account string) error {
				registrar := s.client.Registrar()
				toggle := registrar.DisableAutoRenewal
				if enable {
					toggle = registrar.EnableAutoRenewal
				}
				if err := toggle(ctx, account, domain); err != nil {
					return withDomainSuggestions(s, account, domain, err)
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"domain": domain, "auto_renew": enable})
				}
				action := "Disabled"
				if enable {
					action = "Enabled"
				}
				printAction(cmd, action, "auto-renewal for", domain)
				return nil
			})
		}),
	}
}
