package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mosys/internal/dispatch"
	"mosys/internal/logging"
	"mosys/internal/platform"
)

type fakeLeaf struct {
	name   string
	code   int
	out    io.Writer
	calls  [][]string
	usages int
}

func (f *fakeLeaf) Invoke(_ context.Context, args []string) int {
	f.calls = append(f.calls, args)
	return f.code
}

func (f *fakeLeaf) PrintUsage() {
	f.usages++
	if f.out != nil {
		fmt.Fprintf(f.out, "usage: %s\n", f.name)
	}
}

type entry struct {
	Sev logging.Severity
	Msg string
}

type recorder struct {
	entries []entry
}

func (r *recorder) Emit(sev logging.Severity, msg string, _ ...slog.Attr) error {
	r.entries = append(r.entries, entry{Sev: sev, Msg: msg})
	return nil
}

func (r *recorder) count(sev logging.Severity) int {
	n := 0
	for _, e := range r.entries {
		if e.Sev == sev {
			n++
		}
	}
	return n
}

func row(name, desc string) string {
	return fmt.Sprintf("    %-12s  %s\n", name, desc)
}

type fixture struct {
	tree  *platform.Tree
	info  *fakeLeaf
	reset *fakeLeaf
	out   *bytes.Buffer
	log   *recorder
	d     *dispatch.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	out := &bytes.Buffer{}
	info := &fakeLeaf{name: "ec info", out: out}
	reset := &fakeLeaf{name: "reset", code: 3, out: out}
	tree := &platform.Tree{Name: "test", Root: []platform.Command{
		platform.NewGroup("ec", "EC information",
			platform.NewLeaf("info", "Print basic EC information", info),
		),
		platform.NewLeaf("reset", "Reset the machine", reset),
		platform.NewGroup("empty", "Nothing here"),
	}}
	if err := tree.Validate(); err != nil {
		t.Fatalf("fixture tree invalid: %v", err)
	}
	log := &recorder{}
	return &fixture{
		tree:  tree,
		info:  info,
		reset: reset,
		out:   out,
		log:   log,
		d: dispatch.New(out, log, dispatch.WithUsage(func(w io.Writer) {
			fmt.Fprint(w, "usage: mosys [options] [commands]\n\n")
		})),
	}
}

func (f *fixture) dispatch(tokens ...string) dispatch.Outcome {
	return f.d.Dispatch(context.Background(), f.tree, tokens)
}

func TestDispatchLeafSuccess(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("ec", "info", "--raw", "x")
	if got.Kind != dispatch.Success {
		t.Fatalf("kind = %v, want success", got.Kind)
	}
	if diff := cmp.Diff([][]string{{"--raw", "x"}}, f.info.calls); diff != "" {
		t.Fatalf("leaf args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ec", "info"}, got.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if got.Err() != nil {
		t.Fatalf("Err() = %v", got.Err())
	}
	if f.log.count(logging.Warning) != 0 {
		t.Fatalf("success should not warn: %+v", f.log.entries)
	}
}

func TestDispatchIsCaseInsensitive(t *testing.T) {
	for _, tokens := range [][]string{{"EC", "INFO"}, {"Ec", "iNfO"}, {"ec", "info"}} {
		f := newFixture(t)
		got := f.dispatch(tokens...)
		if got.Kind != dispatch.Success || len(f.info.calls) != 1 {
			t.Fatalf("%v: kind = %v calls = %d", tokens, got.Kind, len(f.info.calls))
		}
		if diff := cmp.Diff([]string{"ec", "info"}, got.Path); diff != "" {
			t.Fatalf("%v: stored case not preserved (-want +got):\n%s", tokens, diff)
		}
	}
}

func TestDispatchEmptyTokensListsRoot(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch()
	if got.Kind != dispatch.Help {
		t.Fatalf("kind = %v, want help", got.Kind)
	}
	want := "usage: mosys [options] [commands]\n\n" +
		"  Commands:\n" +
		row("ec", "EC information") +
		row("reset", "Reset the machine") +
		row("empty", "Nothing here")
	if diff := cmp.Diff(want, f.out.String()); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(got.Err(), dispatch.ErrHelp) {
		t.Fatalf("Err() = %v", got.Err())
	}
}

func TestDispatchEmptyTreeEmptyTokens(t *testing.T) {
	log := &recorder{}
	d := dispatch.New(io.Discard, log)
	got := d.Dispatch(context.Background(), &platform.Tree{}, nil)
	if got.Kind != dispatch.NoCommands {
		t.Fatalf("kind = %v, want no_commands", got.Kind)
	}
	if log.count(logging.Warning) != 1 {
		t.Fatalf("expected one warning, got %+v", log.entries)
	}
}

func TestDispatchEmptyTreeWithTokens(t *testing.T) {
	d := dispatch.New(io.Discard, nil)
	got := d.Dispatch(context.Background(), nil, []string{"ec"})
	if got.Kind != dispatch.NoCommandsDefined {
		t.Fatalf("kind = %v, want no_commands_defined", got.Kind)
	}
}

func TestDispatchGroupWithoutSubcommand(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("ec")
	if got.Kind != dispatch.NotEnoughSubcommands {
		t.Fatalf("kind = %v, want not_enough_subcommands", got.Kind)
	}
	want := "  Commands:\n" + row("info", "Print basic EC information") + "\n"
	if diff := cmp.Diff(want, f.out.String()); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if f.log.count(logging.Warning) != 1 {
		t.Fatalf("expected one warning, got %+v", f.log.entries)
	}
}

func TestDispatchGroupHelpListsOnlyChildren(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("ec", "help")
	if got.Kind != dispatch.Help {
		t.Fatalf("kind = %v, want help", got.Kind)
	}
	want := "  Commands:\n" + row("info", "Print basic EC information") + "\n"
	if diff := cmp.Diff(want, f.out.String()); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if len(f.info.calls) != 0 {
		t.Fatal("help must not invoke the leaf")
	}
}

func TestDispatchLeafHelpPrintsUsage(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("ec", "info", "help")
	if got.Kind != dispatch.Help {
		t.Fatalf("kind = %v, want help", got.Kind)
	}
	if f.info.usages != 1 || len(f.info.calls) != 0 {
		t.Fatalf("usages = %d calls = %d", f.info.usages, len(f.info.calls))
	}
}

func TestDispatchTopLevelHelpToken(t *testing.T) {
	f := newFixture(t)
	if got := f.dispatch("help"); got.Kind != dispatch.Help {
		t.Fatalf("kind = %v, want help", got.Kind)
	}
	if !strings.HasPrefix(f.out.String(), "usage: mosys") {
		t.Fatalf("expected usage banner: %q", f.out.String())
	}
}

func TestDispatchHelpPathsLogAtDebug(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		msg    string
	}{
		{"empty tokens", nil, "listed top-level commands"},
		{"top-level help", []string{"HELP"}, "listed top-level commands"},
		{"group help", []string{"ec", "help"}, "listed subcommands"},
		{"leaf help", []string{"ec", "info", "help"}, "printed command usage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if got := f.dispatch(tt.tokens...); got.Kind != dispatch.Help {
				t.Fatalf("kind = %v, want help", got.Kind)
			}
			if len(f.log.entries) == 0 {
				t.Fatal("help path emitted nothing")
			}
			last := f.log.entries[len(f.log.entries)-1]
			if diff := cmp.Diff(entry{Sev: logging.Debug, Msg: tt.msg}, last); diff != "" {
				t.Fatalf("last entry mismatch (-want +got):\n%s", diff)
			}
			if n := f.log.count(logging.Warning); n != 0 {
				t.Fatalf("help logged %d warnings: %+v", n, f.log.entries)
			}
		})
	}
}

func TestDispatchUnknownTopLevel(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("bogus")
	if got.Kind != dispatch.CommandNotSupported {
		t.Fatalf("kind = %v, want command_not_supported", got.Kind)
	}
	if !strings.Contains(f.out.String(), row("reset", "Reset the machine")) {
		t.Fatalf("expected full listing: %q", f.out.String())
	}
	if f.log.count(logging.Warning) != 1 {
		t.Fatalf("expected one warning, got %+v", f.log.entries)
	}
	if !errors.Is(got.Err(), dispatch.ErrCommandNotSupported) {
		t.Fatalf("Err() = %v", got.Err())
	}
}

func TestDispatchUnknownNested(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("ec", "bogus")
	if got.Kind != dispatch.CommandNotSupported {
		t.Fatalf("kind = %v, want command_not_supported", got.Kind)
	}
	want := "  Commands:\n" + row("info", "Print basic EC information") + "\n"
	if diff := cmp.Diff(want, f.out.String()); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ec"}, got.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchEmptyGroup(t *testing.T) {
	f := newFixture(t)
	for _, tokens := range [][]string{{"empty"}, {"empty", "x"}} {
		if got := f.dispatch(tokens...); got.Kind != dispatch.NoCommandsDefined {
			t.Fatalf("%v: kind = %v, want no_commands_defined", tokens, got.Kind)
		}
	}
}

func TestDispatchLeafFailure(t *testing.T) {
	f := newFixture(t)
	got := f.dispatch("reset", "now")
	if got.Kind != dispatch.LeafErrored || got.Code != 3 {
		t.Fatalf("outcome = %+v", got)
	}
	var leafErr *dispatch.LeafError
	if !errors.As(got.Err(), &leafErr) {
		t.Fatalf("Err() = %v, want *LeafError", got.Err())
	}
	if diff := cmp.Diff([]string{"reset", "now"}, leafErr.Invocation); diff != "" {
		t.Fatalf("invocation mismatch (-want +got):\n%s", diff)
	}
	if f.log.count(logging.Err) != 1 {
		t.Fatalf("expected one error entry, got %+v", f.log.entries)
	}
}

func TestDispatchScenario(t *testing.T) {
	info := &fakeLeaf{name: "info"}
	tree := &platform.Tree{Root: []platform.Command{
		platform.NewGroup("ec", "EC information", platform.NewLeaf("info", "Print EC info", info)),
	}}
	tests := []struct {
		tokens []string
		want   dispatch.Kind
	}{
		{[]string{"ec", "info"}, dispatch.Success},
		{[]string{"ec"}, dispatch.NotEnoughSubcommands},
		{[]string{"ec", "bogus"}, dispatch.CommandNotSupported},
		{[]string{"bogus"}, dispatch.CommandNotSupported},
		{nil, dispatch.Help},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := dispatch.New(&out, nil).Dispatch(context.Background(), tree, tt.tokens)
		if got.Kind != tt.want {
			t.Errorf("%v: kind = %v, want %v", tt.tokens, got.Kind, tt.want)
		}
		if tt.tokens == nil && !strings.Contains(out.String(), row("ec", "EC information")) {
			t.Errorf("help listing missing ec: %q", out.String())
		}
	}
	if len(info.calls) != 1 {
		t.Fatalf("leaf invoked %d times, want 1", len(info.calls))
	}
}

func TestDispatchIgnoresEmitterErrors(t *testing.T) {
	f := newFixture(t)
	d := dispatch.New(io.Discard, failingEmitter{})
	if got := d.Dispatch(context.Background(), f.tree, []string{"ec", "info"}); got.Kind != dispatch.Success {
		t.Fatalf("kind = %v, want success", got.Kind)
	}
}

type failingEmitter struct{}

func (failingEmitter) Emit(logging.Severity, string, ...slog.Attr) error {
	return logging.ErrNotReady
}

func TestWithNameWidth(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer
	d := dispatch.New(&out, nil, dispatch.WithNameWidth(6))
	d.Dispatch(context.Background(), f.tree, []string{"ec"})
	if want := "    info    Print basic EC information\n"; !strings.Contains(out.String(), want) {
		t.Fatalf("expected %q in %q", want, out.String())
	}
}
