package platform

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Action adapts a function into an Invocable.
type Action struct {
	// Path is the full command path shown in usage, e.g. "ec info".
	Path  string
	Usage string
	Out   io.Writer
	Run   func(ctx context.Context, args []string) int
}

func (a *Action) Invoke(ctx context.Context, args []string) int {
	if a.Run == nil {
		return 1
	}
	return a.Run(ctx, args)
}

// PrintUsage prints "usage: <path> <usage>" followed by a blank line.
func (a *Action) PrintUsage() {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "usage: %s %s\n\n", a.Path, a.Usage)
}
