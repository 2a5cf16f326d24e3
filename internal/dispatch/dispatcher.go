package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"

	"mosys/internal/logging"
	"mosys/internal/platform"
)

const (
	defaultNameWidth = 12
	helpToken        = "help"
)

// Emitter receives dispatch diagnostics. *logging.Facility satisfies it.
type Emitter interface {
	Emit(sev logging.Severity, msg string, attrs ...slog.Attr) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithUsage sets the banner printed before the top-level command listing.
func WithUsage(fn func(io.Writer)) Option {
	return func(d *Dispatcher) { d.usage = fn }
}

// WithNameWidth sets the padded width of the name column in listings.
func WithNameWidth(width int) Option {
	return func(d *Dispatcher) {
		if width > 0 {
			d.nameWidth = width
		}
	}
}

// Dispatcher resolves tokens against a capability tree. It holds no mutable
// state and may be shared between goroutines when out and log are safe for
// concurrent use.
type Dispatcher struct {
	out       io.Writer
	log       Emitter
	usage     func(io.Writer)
	nameWidth int
}

// New returns a Dispatcher writing listings to out. A nil log discards
// diagnostics.
func New(out io.Writer, log Emitter, opts ...Option) *Dispatcher {
	if out == nil {
		out = io.Discard
	}
	d := &Dispatcher{out: out, log: log, nameWidth: defaultNameWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch resolves tokens against tree and invokes the selected leaf with the
// tokens that follow it. The leaf runs synchronously on the calling goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, tree *platform.Tree, tokens []string) Outcome {
	var root []platform.Command
	if tree != nil {
		root = tree.Root
	}
	invocation := append([]string(nil), tokens...)
	done := func(kind Kind, path []string) Outcome {
		return Outcome{Kind: kind, Path: path, Invocation: invocation}
	}

	if len(tokens) == 0 {
		if len(root) == 0 {
			d.emit(logging.Warning, "no commands given")
			return done(NoCommands, nil)
		}
		d.printTopLevel(root)
		d.emit(logging.Debug, "listed top-level commands")
		return done(Help, nil)
	}
	if len(root) == 0 {
		d.emit(logging.Warning, "no commands defined for this platform")
		return done(NoCommandsDefined, nil)
	}

	fold := cases.Fold()
	if isHelp(fold, tokens[0]) {
		d.printTopLevel(root)
		d.emit(logging.Debug, "listed top-level commands")
		return done(Help, nil)
	}

	siblings := root
	rest := tokens
	var path []string
	for {
		cmd, ok := match(fold, siblings, rest[0])
		if !ok {
			d.emit(logging.Warning, "command not found", logging.String(logging.FieldCommand, rest[0]))
			if path == nil {
				d.printTopLevel(root)
			} else {
				d.printGroup(siblings)
			}
			return done(CommandNotSupported, path)
		}
		path = append(path, cmd.Name)
		rest = rest[1:]
		d.emit(logging.Debug, "found command",
			logging.String(logging.FieldCommand, strings.Join(path, " ")),
			logging.String("description", cmd.Description),
		)

		switch body := cmd.Body.(type) {
		case platform.Leaf:
			if len(rest) > 0 && isHelp(fold, rest[0]) {
				body.Invocable.PrintUsage()
				d.emit(logging.Debug, "printed command usage",
					logging.String(logging.FieldCommand, strings.Join(path, " ")))
				return done(Help, path)
			}
			code := body.Invocable.Invoke(ctx, append([]string(nil), rest...))
			if code == 0 {
				return done(Success, path)
			}
			d.emit(logging.Err, "command failed",
				logging.Strings(logging.FieldArgs, invocation),
				logging.Int(logging.FieldExitCode, code),
			)
			out := done(LeafErrored, path)
			out.Code = code
			return out

		case platform.Group:
			if len(body.Children) == 0 {
				d.emit(logging.Warning, "no commands defined for this platform",
					logging.String(logging.FieldCommand, strings.Join(path, " ")))
				return done(NoCommandsDefined, path)
			}
			if len(rest) == 0 {
				d.emit(logging.Warning, "not enough subcommands",
					logging.String(logging.FieldCommand, strings.Join(path, " ")))
				d.printGroup(body.Children)
				return done(NotEnoughSubcommands, path)
			}
			if isHelp(fold, rest[0]) {
				d.printGroup(body.Children)
				d.emit(logging.Debug, "listed subcommands",
					logging.String(logging.FieldCommand, strings.Join(path, " ")))
				return done(Help, path)
			}
			siblings = body.Children

		default:
			d.emit(logging.Warning, "command has no body",
				logging.String(logging.FieldCommand, strings.Join(path, " ")))
			return done(NoCommandsDefined, path)
		}
	}
}

func match(fold cases.Caser, cmds []platform.Command, token string) (platform.Command, bool) {
	want := fold.String(token)
	for _, cmd := range cmds {
		if fold.String(cmd.Name) == want {
			return cmd, true
		}
	}
	return platform.Command{}, false
}

func isHelp(fold cases.Caser, token string) bool {
	return fold.String(token) == helpToken
}

// emit drops logging failures so they never change an outcome.
func (d *Dispatcher) emit(sev logging.Severity, msg string, attrs ...slog.Attr) {
	if d.log == nil {
		return
	}
	_ = d.log.Emit(sev, msg, attrs...)
}

func (d *Dispatcher) printTopLevel(root []platform.Command) {
	if d.usage != nil {
		d.usage(d.out)
	}
	d.listCommands(root)
}

func (d *Dispatcher) printGroup(children []platform.Command) {
	d.listCommands(children)
	fmt.Fprintln(d.out)
}

func (d *Dispatcher) listCommands(cmds []platform.Command) {
	fmt.Fprint(d.out, "  Commands:\n")
	for _, cmd := range cmds {
		if cmd.Description == "" {
			continue
		}
		fmt.Fprintf(d.out, "    %s  %s\n", text.Pad(cmd.Name, d.nameWidth, ' '), cmd.Description)
	}
}
