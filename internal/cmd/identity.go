package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account or user behind the current token",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := getSession()
			if err != nil {
				return err
			}
			who, err := s.client.Identity().Whoami(cmdContext(cmd))
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, who)
			}
			w := newTabWriterFromCmd(cmd)
			if a := who.Data.Account; a != nil {
				_, _ = fmt.Fprintf(w, "Account:\t%d\n", a.ID)
				_, _ = fmt.Fprintf(w, "Email:\t%s\n", a.Email)
				_, _ = fmt.Fprintf(w, "Plan:\t%s\n", valueOrDash(a.PlanIdentifier))
			}
			if u := who.Data.User; u != nil {
				_, _ = fmt.Fprintf(w, "User:\t%d\n", u.ID)
				_, _ = fmt.Fprintf(w, "Email:\t%s\n", u.Email)
			}
			_, _ = fmt.Fprintf(w, "API:\t%s\n", s.config.BaseURL)
			return w.Flush()
		}),
	}
}

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "List accounts the token can act on",
	}
	cmd.AddCommand(newAccountsListCmd())
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := getSession()
			if err != nil {
				return err
			}
			accounts, err := s.client.Accounts().List(cmdContext(cmd))
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(accounts)
			}
			if len(accounts.Data) == 0 {
				f.Note("No accounts found")
				return nil
			}
			table := f.Table("ID", "EMAIL", "PLAN")
			for _, a := range accounts.Data {
				table.Row(strconv.Itoa(a.ID), a.Email, valueOrDash(a.PlanIdentifier))
			}
			return table.Flush()
		}),
	}
}
