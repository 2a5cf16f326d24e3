package main

import (
	"errors"
	"fmt"

	"mosys/internal/dispatch"
)

const (
	exitSuccess              = 0
	exitGeneric              = 1
	exitHelp                 = 2
	exitNoCommands           = 3
	exitNoCommandsDefined    = 4
	exitNotEnoughSubcommands = 5
	exitCommandNotSupported  = 6
	exitUnsupported          = 7
	exitLeafError            = 8
	exitLockBusy             = 9
	exitTimeout              = 10
)

// outcomeTimeout is journalled when the watchdog abandons a command.
const outcomeTimeout = "timeout"

var errCommandTimeout = errors.New("command timed out")

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// silentExit is used when the failure was already logged.
func silentExit(code int, err error) error {
	return &exitError{code: code, err: err, silent: true}
}

func exitCodeFor(kind dispatch.Kind) int {
	switch kind {
	case dispatch.Success:
		return exitSuccess
	case dispatch.Help:
		return exitHelp
	case dispatch.NoCommands:
		return exitNoCommands
	case dispatch.NoCommandsDefined:
		return exitNoCommandsDefined
	case dispatch.NotEnoughSubcommands:
		return exitNotEnoughSubcommands
	case dispatch.CommandNotSupported:
		return exitCommandNotSupported
	case dispatch.LeafErrored:
		return exitLeafError
	default:
		return exitGeneric
	}
}

// outcomeError converts a dispatch outcome into the RunE result.
func outcomeError(o dispatch.Outcome) error {
	if o.Kind == dispatch.Success {
		return nil
	}
	return silentExit(exitCodeFor(o.Kind), o.Err())
}

// exitCodeOf extracts the exit code carried by err.
func exitCodeOf(err error) int {
	if err == nil {
		return exitSuccess
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return exitGeneric
}
