package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnsimple/dnsimple-cli/internal/cmd"
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

var (
	execute   = cmd.Execute
	exitCode  = cmd.ExitCode
	terminate = os.Exit
)

func run(ctx context.Context, args []string) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := execute(ctx, args)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		return exitInterrupted
	default:
		return exitCode(err)
	}
}

func main() {
	terminate(run(context.Background(), os.Args[1:]))
}
