package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/cache"
	"github.com/dnsimple/dnsimple-cli/internal/dryrun"
	"github.com/dnsimple/dnsimple-cli/internal/expiry"
	"github.com/dnsimple/dnsimple-cli/internal/resolve"
	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

const domainCacheKey = "domains"

var domainSortFields = []string{"id", "name", "expiration"}

func newDomainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"domain", "d"},
		Short:   "Manage domains in the account",
	}

	cmd.AddCommand(newDomainsListCmd())
	cmd.AddCommand(newDomainsGetCmd())
	cmd.AddCommand(newDomainsCreateCmd())
	cmd.AddCommand(newDomainsDeleteCmd())

	return cmd
}

// cacheTimeout bounds cache access so an unreachable redis never delays a command.
const cacheTimeout = 2 * time.Second

// withDomainCache opens the configured cache backend and runs fn against the
// name list of the session's account. Cache failures are logged and ignored.
func withDomainCache(s *session, account string, fn func(context.Context, *cache.Cache[[]string]) error) {
	backend, err := cache.Open(settings.CacheURL)
	if err != nil {
		slog.Debug("domain cache unavailable", "error", err)
		return
	}
	defer func() { _ = backend.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	scope := cache.Scope{Resource: domainCacheKey, BaseURL: s.config.BaseURL, Account: account}
	if err := fn(ctx, cache.New[[]string](backend, scope, cache.DefaultTTL)); err != nil {
		slog.Debug("domain cache error", "location", backend.Location(), "error", err)
	}
}

func cacheDomainNames(s *session, account string, domains []api.Domain) {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Name
	}
	withDomainCache(s, account, func(ctx context.Context, c *cache.Cache[[]string]) error {
		return c.Store(ctx, names)
	})
}

func clearDomainCache(s *session, account string) {
	withDomainCache(s, account, func(ctx context.Context, c *cache.Cache[[]string]) error {
		return c.Invalidate(ctx)
	})
}

// withDomainSuggestions attaches cached look-alike names to a not-found error.
func withDomainSuggestions(s *session, account, domain string, err error) error {
	if !api.IsNotFound(err) {
		return err
	}
	var suggestions []string
	withDomainCache(s, account, func(ctx context.Context, c *cache.Cache[[]string]) error {
		if names, ok := c.Load(ctx); ok {
			suggestions = resolve.Suggest(domain, names, 3)
		}
		return nil
	})
	if len(suggestions) > 0 {
		return &hintError{err: err, suggestions: suggestions}
	}
	return err
}

func parseSort(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	field, dir, found := strings.Cut(value, ":")
	if !found {
		dir = "asc"
	}
	valid := false
	for _, f := range domainSortFields {
		if f == field {
			valid = true
			break
		}
	}
	if !valid || (dir != "asc" && dir != "desc") {
		return "", fmt.Errorf("--sort must be one of %s, optionally suffixed with :asc or :desc", strings.Join(domainSortFields, ", "))
	}
	return field + ":" + dir, nil
}

func newDomainsListCmd() *cobra.Command {
	var (
		nameLike string
		sort     string
		page     int
		perPage  int
		all      bool
		expiring string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List domains",
		Example: strings.TrimSpace(`
  dnsimple domains list
  dnsimple domains list --name-like shop --sort expiration
  dnsimple domains list --all -o jsonl --jq '.name'
  dnsimple domains list --all --expiring 60d
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			sortValue, err := parseSort(sort)
			if err != nil {
				return err
			}
			if err := validation.ValidatePerPage(perPage); err != nil {
				return err
			}
			if page < 0 {
				return fmt.Errorf("--page must be a positive integer")
			}
			if all && page > 0 {
				return fmt.Errorf("--all and --page cannot be used together")
			}
			var deadline time.Time
			if expiring != "" {
				if deadline, err = expiry.ParseDeadline(expiring, now()); err != nil {
					return err
				}
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

			opts := &api.DomainListOptions{
				NameLike:    nameLike,
				ListOptions: api.ListOptions{Page: page, PerPage: perPage, Sort: sortValue},
			}

			var (
				domains    []api.Domain
				pagination *api.Pagination
			)
			if all {
				domains, err = s.client.Domains().ListAll(ctx, account, opts)
				if err != nil {
					return err
				}
			} else {
				resp, err := s.client.Domains().List(ctx, account, opts)
				if err != nil {
					return err
				}
				domains = resp.Data
				pagination = &resp.Pagination
			}

			complete := all || (pagination != nil && !pagination.HasMore() && pagination.CurrentPage <= 1)
			if complete && nameLike == "" {
				cacheDomainNames(s, account, domains)
			}
			if expiring != "" {
				domains = expiringBefore(domains, deadline)
			}

			var result any = api.ListResponse[api.Domain]{Data: domains}
			if pagination != nil {
				result = api.DomainsResponse{Data: domains, Pagination: *pagination}
			}

			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(result)
			}
			if len(domains) == 0 {
				f.Note("No domains found")
				return nil
			}
			table := f.Table("ID", "NAME", "STATE", "AUTO RENEW", "EXPIRES")
			for _, d := range domains {
				table.Row(strconv.Itoa(d.ID), d.Name, valueOrDash(d.State), strconv.FormatBool(d.AutoRenew), formatTime(d.ExpiresAt))
			}
			if err := table.Flush(); err != nil {
				return err
			}
			if pagination != nil && pagination.HasMore() {
				f.Note("Page %d of %d (%d domains). Use --page or --all for more.",
					pagination.CurrentPage, pagination.TotalPages, pagination.TotalEntries)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&nameLike, "name-like", "", "Only domains whose name contains this string")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort by id, name or expiration (suffix :asc or :desc)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, fmt.Sprintf("Domains per page (max %d)", validation.MaxPerPage))
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	cmd.Flags().StringVar(&expiring, "expiring", "", "Only domains expiring by then (e.g. 30d, 3mo, 2027-01-31)")
	flagAlias(cmd.Flags(), "per-page", "limit")

	return cmd
}

// expiringBefore keeps the domains that expire on or before deadline.
func expiringBefore(domains []api.Domain, deadline time.Time) []api.Domain {
	out := make([]api.Domain, 0, len(domains))
	for _, d := range domains {
		if expiry.Before(d.ExpiresAt, deadline) {
			out = append(out, d)
		}
	}
	return out
}

func newDomainsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <domain|id|url>",
		Aliases: []string{"show"},
		Short:   "Show a domain",
		Example: strings.TrimSpace(`
  dnsimple domains get example.com
  dnsimple domains get 181984
  dnsimple domains get https://dnsimple.com/a/1010/domains/example.com
`),
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name, err := domainRef(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("domain name cannot be empty")
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

			resp, err := s.client.Domains().Get(ctx, account, name)
			if err != nil {
				return withDomainSuggestions(s, account, name, err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, resp)
			}
			return printDomain(cmd, resp.Data)
		}),
	}
}

func printDomain(cmd *cobra.Command, d api.Domain) error {
	w := newTabWriterFromCmd(cmd)
	_, _ = fmt.Fprintf(w, "ID:\t%d\n", d.ID)
	_, _ = fmt.Fprintf(w, "Name:\t%s\n", d.Name)
	if d.UnicodeName != "" && d.UnicodeName != d.Name {
		_, _ = fmt.Fprintf(w, "Unicode name:\t%s\n", d.UnicodeName)
	}
	_, _ = fmt.Fprintf(w, "Account:\t%d\n", d.AccountID)
	_, _ = fmt.Fprintf(w, "State:\t%s\n", valueOrDash(d.State))
	_, _ = fmt.Fprintf(w, "Auto renew:\t%v\n", d.AutoRenew)
	_, _ = fmt.Fprintf(w, "Private WHOIS:\t%v\n", d.PrivateWhois)
	_, _ = fmt.Fprintf(w, "Expires:\t%s\n", formatTime(d.ExpiresAt))
	_, _ = fmt.Fprintf(w, "Created:\t%s\n", formatTime(&d.CreatedAt))
	return w.Flush()
}

func newDomainsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <domain>",
		Aliases: []string{"add"},
		Short:   "Add a domain to the account",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name, err := domainArg(args[0])
			if err != nil {
				return err
			}
			return mutate(cmd, name, "create domain", func(account string) *api.RequestBuilder {
				return api.CreateDomainRequest(account, api.DomainAttributes{Name: name})
			}, func(ctx context.Context, s *session, account string) error {
				resp, err := s.client.Domains().Create(ctx, account, api.DomainAttributes{Name: name})
				if err != nil {
					return err
				}
				clearDomainCache(s, account)
				if isJSON(cmd) {
					return printJSON(cmd, resp)
				}
				printAction(cmd, "Created", "domain", resp.Data.Name)
				return nil
			})
		}),
	}
}

func newDomainsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <domain>",
		Aliases: []string{"rm"},
		Short:   "Delete a domain and its zone",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name, err := domainArg(args[0])
			if err != nil {
				return err
			}
			if !yes && !flags.DryRun {
				return fmt.Errorf("refusing to delete %s without --yes", name)
			}
			return mutate(cmd, name, "delete domain", func(account string) *api.RequestBuilder {
				return api.DeleteDomainRequest(account, name)
			}, func(ctx context.Context, s *session, account string) error {
				if err := s.client.Domains().Delete(ctx, account, name); err != nil {
					return withDomainSuggestions(s, account, name, err)
				}
				clearDomainCache(s, account)
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"domain": name, "deleted": true})
				}
				printAction(cmd, "Deleted", "domain", name)
				return nil
			})
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}

// mutate previews the request under --dry-run without touching the API;
// otherwise it resolves the account and runs apply.
func mutate(
	cmd *cobra.Command,
	domain, operation string,
	build func(account string) *api.RequestBuilder,
	apply func(ctx context.Context, s *session, account string) error,
) error {
	s, err := getSession()
	if err != nil {
		return err
	}
	if dryrun.Enabled(cmd.Context()) {
		account, shown := s.previewAccount()
		details := map[string]any{"account": shown, "domain": domain}
		_, err := previewRequest(cmd, operation, build(account), details)
		return err
	}

	ctx := cmdContext(cmd)
	account, err := s.account(ctx)
	if err != nil {
		return err
	}
	return apply(ctx, s, account)
}
