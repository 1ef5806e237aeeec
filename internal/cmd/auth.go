package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/config"
	"github.com/dnsimple/dnsimple-cli/internal/debug"
	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication credentials",
		Long:  "Store DNSimple API tokens in the OS keychain, one profile per account or environment.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

// AuthStatus is the JSON shape of auth login and auth status.
type AuthStatus struct {
	Profile   string `json:"profile"`
	AccountID string `json:"account_id,omitempty"`
	Email     string `json:"email,omitempty"`
	BaseURL   string `json:"base_url"`
	Token     string `json:"token"`
	Verified  bool   `json:"verified"`
}

func loginBaseURL() string {
	switch {
	case flags.BaseURL != "":
		return strings.TrimSuffix(flags.BaseURL, "/")
	case flags.Sandbox || settings.Sandbox:
		return config.SandboxBaseURL
	case settings.BaseURL != "":
		return strings.TrimSuffix(settings.BaseURL, "/")
	default:
		return config.ProductionBaseURL
	}
}

func newAuthLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify and store an API token",
		Long: strings.TrimSpace(`
Verify an API token against /whoami and store it in the OS keychain.

Account tokens record their own account. For user tokens pass --account.
Use --token - to read the token from stdin.
`),
		Example: strings.TrimSpace(`
  dnsimple auth login --token $TOKEN
  dnsimple auth login --sandbox --profile sandbox --token $SANDBOX_TOKEN
  echo $TOKEN | dnsimple auth login --token - --account 1010
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if token == "-" {
				line, err := streams(cmd).ReadLine()
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			baseURL := loginBaseURL()
			if err := validation.ValidateBaseURL(baseURL); err != nil {
				return fmt.Errorf("invalid base URL: %w", err)
			}

			client := newClient(config.ClientConfig{BaseURL: baseURL, Token: token, Timeout: flags.Timeout})
			who, err := client.Identity().Whoami(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("token verification failed: %w", err)
			}

			status := AuthStatus{
				Profile:  profileName(),
				BaseURL:  baseURL,
				Token:    debug.Redact(token),
				Verified: true,
			}
			status.AccountID, status.Email = whoamiIdentity(who.Data)
			if flags.Account != "" {
				if err := validation.ValidateAccountID(flags.Account); err != nil {
					return err
				}
				status.AccountID = strings.TrimSpace(flags.Account)
			}

			account := config.Account{Token: token, AccountID: status.AccountID}
			switch baseURL {
			case config.ProductionBaseURL:
			case config.SandboxBaseURL:
				account.Sandbox = true
			default:
				account.BaseURL = baseURL
			}
			if err := config.SaveProfile(status.Profile, account); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Logged in as %s (profile %s)\n", displayIdentity(status), status.Profile)
			if status.AccountID == "" {
				_, _ = fmt.Fprintln(out, "No account recorded: pass --account to commands or log in again with --account")
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "API access token ('-' reads stdin)")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveClientConfig(settings, overrides())
			if err != nil {
				return err
			}

			status := AuthStatus{
				Profile:   profileName(),
				AccountID: cfg.AccountID,
				BaseURL:   cfg.BaseURL,
				Token:     debug.Redact(cfg.Token),
			}
			if verify {
				who, err := newClient(cfg).Identity().Whoami(cmdContext(cmd))
				if err != nil {
					return err
				}
				status.Verified = true
				accountID, email := whoamiIdentity(who.Data)
				status.Email = email
				if status.AccountID == "" {
					status.AccountID = accountID
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, status)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "Profile:\t%s\n", status.Profile)
			_, _ = fmt.Fprintf(w, "Account:\t%s\n", valueOrDash(status.AccountID))
			if status.Email != "" {
				_, _ = fmt.Fprintf(w, "Email:\t%s\n", status.Email)
			}
			_, _ = fmt.Fprintf(w, "API:\t%s\n", status.BaseURL)
			_, _ = fmt.Fprintf(w, "Token:\t%s\n", status.Token)
			if verify {
				_, _ = fmt.Fprintf(w, "Verified:\t%v\n", status.Verified)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check the token against the API")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials for a profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := profileName()
			if err := config.DeleteProfile(profile); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "removed": true})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for profile %s\n", profile)
			return nil
		}),
	}
}

// ProfileEntry is one row of auth profiles.
type ProfileEntry struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id,omitempty"`
	BaseURL   string `json:"base_url"`
	Current   bool   `json:"current"`
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current := profileName()

			entries := make([]ProfileEntry, 0, len(names))
			for _, name := range names {
				account, err := config.LoadProfile(name)
				if err != nil {
					return fmt.Errorf("profile %s: %w", name, err)
				}
				entries = append(entries, ProfileEntry{
					Name:      name,
					AccountID: account.AccountID,
					BaseURL:   profileBaseURL(account),
					Current:   name == current,
				})
			}

			if isJSON(cmd) {
				return printJSON(cmd, entries)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No profiles stored. Run 'dnsimple auth login' to add one.")
				return nil
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "\tPROFILE\tACCOUNT\tAPI")
			for _, e := range entries {
				marker := ""
				if e.Current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, e.Name, valueOrDash(e.AccountID), e.BaseURL)
			}
			return w.Flush()
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := strings.TrimSpace(args[0])
			if err := config.SetCurrentProfile(profile); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "current": true})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %s\n", profile)
			return nil
		}),
	}
}

func profileBaseURL(a config.Account) string {
	switch {
	case a.BaseURL != "":
		return a.BaseURL
	case a.Sandbox:
		return config.SandboxBaseURL
	default:
		return config.ProductionBaseURL
	}
}

// profileName returns the profile selected by --profile, DNSIMPLE_PROFILE,
// or the keychain's current profile.
func profileName() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	if p := strings.TrimSpace(os.Getenv(config.EnvProfile)); p != "" {
		return p
	}
	if current, err := config.CurrentProfile(); err == nil && current != "" {
		return current
	}
	return config.DefaultProfile
}

func whoamiIdentity(who api.WhoamiData) (accountID, email string) {
	switch {
	case who.Account != nil:
		return strconv.Itoa(who.Account.ID), who.Account.Email
	case who.User != nil:
		return "", who.User.Email
	default:
		return "", ""
	}
}

func displayIdentity(s AuthStatus) string {
	switch {
	case s.Email != "" && s.AccountID != "":
		return fmt.Sprintf("%s (account %s)", s.Email, s.AccountID)
	case s.Email != "":
		return s.Email
	case s.AccountID != "":
		return "account " + s.AccountID
	default:
		return "unknown identity"
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
