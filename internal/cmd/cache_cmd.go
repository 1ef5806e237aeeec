package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the domain name cache",
		Long: `Domain names seen by 'domains list' are kept for five minutes and used for
"did you mean" hints. Entries live under the user cache directory unless
cache_url points at a directory or a redis:// server. Set DNSIMPLE_NO_CACHE=1
to turn the cache off.`,
	}
	cmd.AddCommand(newCachePathCmd(), newCacheClearCmd())
	return cmd
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cache entries are kept",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			backend, err := cache.Open(settings.CacheURL)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"path": backend.Location(), "enabled": !cache.Disabled()})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), backend.Location())
			return nil
		}),
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			backend, err := cache.Open(settings.CacheURL)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			removed, err := backend.Clear(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("clear cache at %s: %w", backend.Location(), err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"path": backend.Location(), "removed": removed})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache %s\n", removed, plural(removed, "entry", "entries"))
			return nil
		}),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
