package cmd

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/spf13/pflag"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/config"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitAuth     = 3
	exitNotFound = 4
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if errors.Is(err, config.ErrNotConfigured) {
		return exitUsage
	}
	if code := exitCodeFromStructured(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromStructured(err error) int {
	var (
		remote *beacon.RemoteError
		arg    *beacon.ArgumentError
		cfg    *beacon.ConfigError
		tr     *beacon.TransportError
	)
	if !errors.As(err, &remote) && !errors.As(err, &arg) && !errors.As(err, &cfg) && !errors.As(err, &tr) {
		return 0
	}

	switch beacon.StructuredErrorFromError(err).Code {
	case beacon.ErrCodeUnauthorized:
		return exitAuth
	case beacon.ErrCodeNotFound:
		return exitNotFound
	case beacon.ErrCodeServerError:
		return exitServer
	case beacon.ErrCodeNetwork, beacon.ErrCodeTimeout:
		return exitNetwork
	case beacon.ErrCodeInvalidArgument, beacon.ErrCodeInvalidConfig, beacon.ErrCodeBadRequest:
		return exitUsage
	default:
		return 0
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"accepts ",
		"invalid ",
		"cannot be empty",
		"exceeds maximum",
		"must be",
		"must not be",
		"is required",
		"cannot be used together",
		"conflicts with",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
