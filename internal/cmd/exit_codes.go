package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dnsimple/dnsimple-cli/internal/api"
	"github.com/dnsimple/dnsimple-cli/internal/config"
)

// Process exit codes. Scripts rely on these staying stable.
const (
	exitOK              = 0
	exitGeneric         = 1
	exitUsage           = 2
	exitAuth            = 3
	exitNotFound        = 4
	exitForbidden       = 5
	exitFeatureDisabled = 6
	exitServer          = 7
	exitNetwork         = 8
)

var apiExitCodes = map[api.ErrorCode]int{
	api.ErrUnauthorized:    exitAuth,
	api.ErrForbidden:       exitForbidden,
	api.ErrPaymentRequired: exitForbidden,
	api.ErrNotFound:        exitNotFound,
	api.ErrFeatureDisabled: exitFeatureDisabled,
	api.ErrServerError:     exitServer,
	api.ErrTransport:       exitNetwork,
	api.ErrTimeout:         exitNetwork,
	api.ErrBadRequest:      exitUsage,
	api.ErrValidation:      exitUsage,
	api.ErrConflict:        exitUsage,
	api.ErrConfig:          exitUsage,
}

// usagePhrases mark errors raised by cobra, pflag and local argument checks.
var usagePhrases = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"accepts ",
	"requires at least",
	"requires exactly",
	"invalid argument",
	"invalid account",
	"invalid output format",
	"invalid expiry",
	"domain name",
	"name server",
	"without --yes",
	"must be",
	"cannot be used together",
	"requires --",
	"is required",
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != exitOK {
			return handled.exitCode
		}
		err = handled.err
	}

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return exitAuth
	case errors.Is(err, config.ErrUnknownProfile):
		return exitUsage
	}
	if code, ok := apiExitCodes[api.ErrorCodeOf(err)]; ok {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range usagePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
