package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/config"
	"github.com/dnsimple/dnsimple-cli/internal/dryrun"
	"github.com/dnsimple/dnsimple-cli/internal/iocontext"
	"github.com/dnsimple/dnsimple-cli/internal/outfmt"
	"github.com/dnsimple/dnsimple-cli/internal/resolve"
	"github.com/dnsimple/dnsimple-cli/internal/urlparse"
	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

// version is set at build time via ldflags
var version = "dev"

func userAgent() string {
	return "dnsimple-cli/" + version
}

// session is an API client plus the configuration it was built from.
type session struct {
	client *api.Client
	config config.ClientConfig
}

// overrides collects the global flags that affect client resolution.
func overrides() config.Overrides {
	return config.Overrides{
		Profile: flags.Profile,
		Account: flags.Account,
		BaseURL: flags.BaseURL,
		Sandbox: flags.Sandbox,
		Timeout: flags.Timeout,
	}
}

// newClient builds an API client for cfg.
func newClient(cfg config.ClientConfig) *api.Client {
	client := api.New(cfg.BaseURL, cfg.Token)
	client.UserAgent = userAgent()
	client.RequestIDFunc = uuid.NewString
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return client
}

// getSession creates an API client from stored credentials and flags.
func getSession() (*session, error) {
	cfg, err := config.ResolveClientConfig(settings, overrides())
	if err != nil {
		return nil, err
	}
	return &session{client: newClient(cfg), config: cfg}, nil
}

// account returns the numeric account ID to act on. A configured email is
// matched against the accounts the token can see; with nothing configured,
// an account token's own account is used.
func (s *session) account(ctx context.Context) (string, error) {
	configured := strings.TrimSpace(s.config.AccountID)
	if configured != "" && validation.ValidateAccountID(configured) == nil {
		return configured, nil
	}

	if configured == "" {
		who, err := s.client.Identity().Whoami(ctx)
		if err != nil {
			return "", err
		}
		if who.Data.Account != nil {
			return strconv.Itoa(who.Data.Account.ID), nil
		}
		return s.config.RequireAccount()
	}

	accounts, err := s.client.Accounts().List(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving account %q: %w", configured, err)
	}
	candidates := make([]resolve.Candidate, 0, len(accounts.Data))
	for _, a := range accounts.Data {
		candidates = append(candidates, resolve.Candidate{ID: a.ID, Label: a.Email})
	}
	match, err := resolve.Best(configured, candidates)
	if err != nil {
		return "", fmt.Errorf("resolving account %q: %w", configured, err)
	}
	return strconv.Itoa(match.ID), nil
}

// previewAccount is the account a dry run uses without calling the API. A
// numeric account is used as is; anything else previews as the :account
// placeholder and is shown the way it will be resolved.
func (s *session) previewAccount() (segment, shown string) {
	configured := strings.TrimSpace(s.config.AccountID)
	if configured != "" && validation.ValidateAccountID(configured) == nil {
		return configured, configured
	}
	if configured == "" {
		return ":account", "(token's account, resolved at run time)"
	}
	return ":account", configured + " (resolved at run time)"
}

// domainRef normalises a domain argument without validating it, so numeric
// domain IDs pass through. A pasted dashboard URL is reduced to its domain and
// selects its account unless --account was given.
func domainRef(arg string) (string, error) {
	if urlparse.LooksLikeURL(arg) {
		ref, err := urlparse.Parse(arg)
		if err != nil {
			return "", err
		}
		if flags.Account == "" {
			flags.Account = ref.Account()
		}
		arg = ref.Domain
	}
	return validation.NormalizeDomainName(arg), nil
}

// domainArg normalises and validates a domain name argument.
func domainArg(arg string) (string, error) {
	name, err := domainRef(arg)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateDomainName(name); err != nil {
		return "", err
	}
	return name, nil
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

// streams returns the I/O streams the command writes to.
func streams(cmd *cobra.Command) *iocontext.Streams {
	return iocontext.From(cmd.Context())
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	return newTabWriter(streams(cmd).Stdout)
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	s := streams(cmd)
	return outfmt.NewFormatter(cmd.Context(), s.Stdout, s.Stderr)
}

// printJSON outputs data as JSON or JSON lines with optional --jq filtering
func printJSON(cmd *cobra.Command, v any) error {
	return newFormatter(cmd).Output(v)
}

// isJSON checks if the command context wants structured output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printAction reports a completed mutation in text mode.
func printAction(cmd *cobra.Command, action, resource, name string) {
	if isJSON(cmd) {
		return
	}
	_, _ = fmt.Fprintf(streams(cmd).Stdout, "%s %s %s\n", action, resource, name)
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// previewRequest prints a dry-run preview of b when --dry-run is set and
// reports whether it did.
func previewRequest(cmd *cobra.Command, operation string, b *api.RequestBuilder, details map[string]any) (bool, error) {
	if !dryrun.Enabled(cmd.Context()) {
		return false, nil
	}
	req, err := b.Build()
	if err != nil {
		return true, err
	}
	preview := dryrun.FromRequest(operation, req)
	preview.Details = details
	if isJSON(cmd) {
		return true, printJSON(cmd, preview)
	}
	return true, preview.WriteText(streams(cmd).Stdout)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

// aliasBridgeValue forwards Set on a hidden alias to the canonical flag so
// Changed() reports true for both.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias that shares the canonical flag's value.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy, shares the Value
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	a.Annotations = map[string][]string{"alias-of": {name}}
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	changed := false
	check := func(f *pflag.Flag) {
		if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && f.Changed {
			changed = true
		}
	}
	cmd.Flags().VisitAll(check)
	cmd.InheritedFlags().VisitAll(check)
	return changed
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return it so Cobra exits non-zero without printing the
// error again (SilenceErrors is set on the root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		stderr := streams(cmd).Stderr
		if isJSON(cmd) {
			_ = outfmt.WriteJSON(stderr, structuredError(err))
		} else {
			_, _ = fmt.Fprint(stderr, HandleError(err))
		}
		// The original error stays reachable for errors.Is/As in tests.
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
