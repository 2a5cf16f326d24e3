package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"mosys/internal/config"
	"mosys/internal/dispatch"
	"mosys/internal/kv"
	"mosys/internal/lock"
	"mosys/internal/logging"
	"mosys/internal/platform"
	"mosys/internal/platforms"
	"mosys/internal/sysinfo"
)

// run performs one invocation. The logging facility is held for its whole
// duration and released on every return path.
func (c *commandContext) run(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, args []string) error {
	style, key := c.outputStyle(cfg)
	printer := &kv.Printer{Style: style, SingleKey: key, Out: stdout}

	fac := c.deps.facility
	guard, err := fac.Acquire(loggingOptions(cfg, stderr))
	if err != nil {
		return exitWith(exitGeneric, fmt.Errorf("open logging: %w", err))
	}
	defer guard.Release()
	for range c.flags.verbose {
		fac.IncreaseVerbosity()
	}
	logger := fac.Logger()

	if c.flags.history > 0 {
		if len(args) > 0 {
			return exitWith(exitGeneric, fmt.Errorf("--history takes no commands (got %q); set the count with --history=N", strings.Join(args, " ")))
		}
		if err := printHistory(ctx, cfg, printer, c.flags.history); err != nil {
			return exitWith(exitGeneric, err)
		}
		return nil
	}

	devices := c.deps.devices
	if devices == nil {
		devices = sysinfo.UdevSource{Logger: logging.NewComponentLogger(logger, "udev")}
	}
	provider, err := c.deps.catalog(platforms.Env{
		Reader:  sysinfo.Reader{Root: cfg.Platform.RootPrefix},
		Devices: devices,
		Printer: printer,
		Logger:  logger,
		Program: programName,
	})
	if err != nil {
		return exitWith(exitGeneric, err)
	}

	if c.flags.supported {
		for _, id := range provider.Platforms() {
			if err := printer.Print(kv.P("id", id)); err != nil {
				return exitWith(exitGeneric, err)
			}
		}
		return nil
	}

	if cfg.Lock.Enabled && !c.flags.force {
		held, err := lock.Acquire(ctx, cfg.Lock.Path, cfg.LockTimeout())
		if err != nil {
			if errors.Is(err, lock.ErrBusy) {
				_ = fac.Emit(logging.Err, "mosys lock held by another process", logging.String("path", cfg.Lock.Path))
				return silentExit(exitLockBusy, err)
			}
			return exitWith(exitGeneric, err)
		}
		defer func() {
			if err := held.Release(); err != nil {
				_ = fac.Emit(logging.Warning, "release lock failed", logging.Error(err))
			}
		}()
	}

	tree, err := provider.Resolve(ctx, cfg.Platform.ID)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			_ = fac.Emit(logging.Err, "platform not supported", logging.String(logging.FieldPlatform, cfg.Platform.ID))
			return silentExit(exitUnsupported, err)
		}
		return exitWith(exitGeneric, err)
	}
	_ = fac.Emit(logging.Debug, "platform resolved",
		logging.String(logging.FieldPlatform, tree.Name),
		logging.Bool("detected", cfg.Platform.ID == ""),
	)

	if c.flags.tree {
		verbose := fac.Threshold() >= logging.Notice
		if err := dispatch.PrintTree(stdout, programName, tree, verbose); err != nil {
			if errors.Is(err, dispatch.ErrNoCommandsDefined) {
				_ = fac.Emit(logging.Warning, "no commands defined", logging.String(logging.FieldPlatform, tree.Name))
				return silentExit(exitNoCommandsDefined, err)
			}
			return exitWith(exitGeneric, err)
		}
		return nil
	}

	runCtx := ctx
	timeout := cfg.CommandTimeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	d := dispatch.New(stdout, fac, dispatch.WithUsage(printUsage))
	started := time.Now()
	outcome, err := dispatchWatched(runCtx, d, tree, args)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return exitWith(exitGeneric, err)
		}
		_ = fac.Emit(logging.Err, "command timed out",
			logging.Strings(logging.FieldArgs, args),
			logging.String("timeout", timeout.String()),
		)
		if cfg.Journal.Enabled {
			entry := journalEntry(tree.Name, args, outcome, started)
			entry.Outcome = outcomeTimeout
			recordInvocation(ctx, fac, cfg, entry)
		}
		return silentExit(exitTimeout, fmt.Errorf("%w after %s", errCommandTimeout, timeout))
	}
	if cfg.Journal.Enabled {
		recordInvocation(ctx, fac, cfg, journalEntry(tree.Name, args, outcome, started))
	}
	return outcomeError(outcome)
}

// dispatchWatched runs the dispatch on its own goroutine so a leaf that
// ignores ctx cannot outlive the watchdog. On expiry the leaf is abandoned.
func dispatchWatched(ctx context.Context, d *dispatch.Dispatcher, tree *platform.Tree, args []string) (dispatch.Outcome, error) {
	done := make(chan dispatch.Outcome, 1)
	go func() {
		done <- d.Dispatch(ctx, tree, args)
	}()
	select {
	case outcome := <-done:
		return outcome, nil
	case <-ctx.Done():
		return dispatch.Outcome{}, ctx.Err()
	}
}
