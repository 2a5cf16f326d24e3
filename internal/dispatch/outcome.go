package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the terminal state of one dispatch.
type Kind int

const (
	Success Kind = iota
	Help
	NoCommands
	NoCommandsDefined
	NotEnoughSubcommands
	CommandNotSupported
	LeafErrored
)

var kindNames = [...]string{
	Success:              "success",
	Help:                 "help",
	NoCommands:           "no_commands",
	NoCommandsDefined:    "no_commands_defined",
	NotEnoughSubcommands: "not_enough_subcommands",
	CommandNotSupported:  "command_not_supported",
	LeafErrored:          "leaf_error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

var (
	ErrHelp                 = errors.New("help requested")
	ErrNoCommands           = errors.New("no commands given")
	ErrNoCommandsDefined    = errors.New("no commands defined for this platform")
	ErrNotEnoughSubcommands = errors.New("not enough subcommands")
	ErrCommandNotSupported  = errors.New("command not supported on this platform")
)

// LeafError reports a leaf that returned a nonzero status.
type LeafError struct {
	Code       int
	Invocation []string
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("command %q failed with status %d", strings.Join(e.Invocation, " "), e.Code)
}

// Outcome is the result of one dispatch.
type Outcome struct {
	Kind Kind
	// Code is the leaf status for LeafErrored.
	Code int
	// Path holds the matched command names in their declared case.
	Path []string
	// Invocation is the token sequence the dispatch was called with.
	Invocation []string
}

// Err converts the outcome to an error. Success yields nil.
func (o Outcome) Err() error {
	switch o.Kind {
	case Success:
		return nil
	case Help:
		return ErrHelp
	case NoCommands:
		return ErrNoCommands
	case NoCommandsDefined:
		return ErrNoCommandsDefined
	case NotEnoughSubcommands:
		return ErrNotEnoughSubcommands
	case CommandNotSupported:
		return ErrCommandNotSupported
	case LeafErrored:
		return &LeafError{Code: o.Code, Invocation: o.Invocation}
	default:
		return fmt.Errorf("unknown dispatch outcome %v", o.Kind)
	}
}
