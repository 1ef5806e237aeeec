package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dnsimple/dnsimple-cli/internal/update"
)

// VersionInfo is the JSON shape of the version command.
type VersionInfo struct {
	Version string         `json:"version"`
	Update  *update.Result `json:"update,omitempty"`
}

// newChecker is replaced in tests.
var newChecker = func() *update.Checker { return update.NewChecker(userAgent()) }

func newVersionCmd() *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := VersionInfo{Version: version}
			if !skipCheck {
				result, err := newChecker().Check(cmd.Context(), version)
				switch {
				case err == nil:
					info.Update = result
				case !errors.Is(err, update.ErrUnversioned):
					slog.Debug("update check failed", "error", err)
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, info)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dnsimple-cli version %s\n", version)
			if notice := info.Update.Notice(); notice != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", notice)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&skipCheck, "no-check", false, "Skip the release check")

	return cmd
}
