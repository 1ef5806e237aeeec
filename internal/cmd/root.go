package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dnsimple/dnsimple-cli/internal/config"
	"github.com/dnsimple/dnsimple-cli/internal/debug"
	"github.com/dnsimple/dnsimple-cli/internal/dryrun"
	"github.com/dnsimple/dnsimple-cli/internal/iocontext"
	"github.com/dnsimple/dnsimple-cli/internal/outfmt"
	"github.com/dnsimple/dnsimple-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output      string
	JQ          string
	Compact     bool
	Debug       bool
	DryRun      bool
	Account     string
	Profile     string
	Sandbox     bool
	BaseURL     string
	Timeout     time.Duration
	Concurrency int
}

// flags holds the global command flags. It is package-level mutable state
// and MUST be reset at the start of every Execute() call; tests rely on it.
var flags rootFlags

// settings holds config.yaml values loaded for the current Execute() call.
var settings config.Settings

// loadEnvFile loads variables from the .env file next to config.yaml when it
// exists. Variables already set in the environment are not overwritten.
func loadEnvFile() {
	path, err := config.EnvFilePath()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Runs before settings are read so DNSIMPLE_* values from .env apply.
	loadEnvFile()

	flags = rootFlags{}
	s, err := config.LoadSettings("")
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	settings = s

	root := &cobra.Command{
		Use:                "dnsimple",
		Short:              "CLI for the DNSimple domain and registrar API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // see explainUsageError
		PersistentPreRunE:  prepareRun,
	}
	root.SetContext(ctx)
	root.SetArgs(args)
	bindGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newAuthCmd(),
		newWhoamiCmd(),
		newAccountsCmd(),
		newDomainsCmd(),
		newDelegationCmd(),
		newVanityCmd(),
		newRegistrarCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)

	target, err := root.ExecuteC()
	if err != nil && !errors.Is(err, errAlreadyHandled) {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), explainUsageError(err, root, target))
	}
	return err
}

func bindGlobalFlags(pf *pflag.FlagSet) {
	pf.StringVarP(&flags.Output, "output", "o", config.DefaultOutput, "Output format: text|json|jsonl (config: output)")
	pf.StringVar(&flags.JQ, "jq", "", "JQ expression to filter JSON output")
	pf.BoolVar(&flags.Compact, "compact", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Log HTTP requests to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.StringVarP(&flags.Account, "account", "a", "", "Account ID or email (env DNSIMPLE_ACCOUNT)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env DNSIMPLE_PROFILE)")
	pf.BoolVar(&flags.Sandbox, "sandbox", false, "Use the sandbox API ("+config.SandboxBaseURL+")")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (env DNSIMPLE_BASE_URL)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout (e.g. 30s, 2m; config: timeout)")
	pf.IntVar(&flags.Concurrency, "concurrency", config.DefaultConcurrency, "Parallel requests for multi-domain commands (config: concurrency)")

	for canonical, alias := range map[string]string{
		"dry-run": "dr",
		"compact": "compact-json",
		"output":  "out",
		"debug":   "dbg",
		"timeout": "to",
	} {
		flagAlias(pf, canonical, alias)
	}
}

// prepareRun validates the global flags and stores the per-run state
// (streams, output options, logger, dry-run) in the command context.
func prepareRun(cmd *cobra.Command, _ []string) error {
	opts, err := outputOptions(cmd)
	if err != nil {
		return err
	}

	if !flagOrAliasChanged(cmd, "concurrency") {
		flags.Concurrency = settings.Concurrency
	}
	switch {
	case flags.Concurrency < 1 || flags.Concurrency > config.MaxConcurrency:
		return fmt.Errorf("--concurrency must be between 1 and %d", config.MaxConcurrency)
	case flags.Timeout < 0:
		return fmt.Errorf("--timeout must be >= 0")
	case flags.Sandbox && flags.BaseURL != "":
		return fmt.Errorf("--sandbox and --base-url cannot be used together")
	}

	validation.SetAllowLoopback(os.Getenv("DNSIMPLE_TESTING") == "1")

	s := iocontext.System()
	cmd.SetOut(s.Stdout)
	cmd.SetErr(s.Stderr)
	logger := debug.NewLogger(s.Stderr, flags.Debug)
	slog.SetDefault(logger)

	ctx := iocontext.With(cmd.Context(), s)
	ctx = outfmt.WithOptions(ctx, opts)
	ctx = debug.WithLogger(ctx, logger)
	ctx = dryrun.Enable(ctx, flags.DryRun)
	cmd.SetContext(ctx)
	return nil
}

// outputOptions merges --output with the configured default. A --jq filter
// switches the default text mode to JSON, but not an explicit --output text.
func outputOptions(cmd *cobra.Command) (outfmt.Options, error) {
	explicit := flagOrAliasChanged(cmd, "output")
	output := settings.Output
	if explicit {
		output = flags.Output
	}
	if flags.JQ != "" {
		if mode, err := outfmt.ParseMode(output); err == nil && mode == outfmt.Text {
			if explicit {
				return outfmt.Options{}, fmt.Errorf("--jq requires --output json or jsonl")
			}
			output = outfmt.JSON.String()
		}
	}
	return outfmt.NewOptions(output, flags.JQ, flags.Compact)
}
