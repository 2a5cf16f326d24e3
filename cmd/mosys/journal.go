package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mosys/internal/config"
	"mosys/internal/dispatch"
	"mosys/internal/journal"
	"mosys/internal/kv"
	"mosys/internal/logging"
)

func journalEntry(platformName string, args []string, o dispatch.Outcome, started time.Time) journal.Entry {
	return journal.Entry{
		Platform:   platformName,
		Invocation: append([]string(nil), args...),
		Outcome:    o.Kind.String(),
		Code:       o.Code,
		StartedAt:  started,
		Duration:   time.Since(started),
	}
}

// recordInvocation appends e to the journal and trims it to the configured
// size. Failures are logged and never change the exit status.
func recordInvocation(ctx context.Context, fac *logging.Facility, cfg *config.Config, e journal.Entry) {
	store, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		_ = fac.Emit(logging.Warning, "journal unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, e)
	if err != nil {
		_ = fac.Emit(logging.Warning, "journal record failed", logging.Error(err))
		return
	}
	removed, err := store.Prune(ctx, cfg.Journal.Keep)
	if err != nil {
		_ = fac.Emit(logging.Warning, "journal prune failed", logging.Error(err))
		return
	}
	_ = fac.Emit(logging.Spew, "journal updated",
		logging.String("id", id),
		logging.Int("pruned", int(removed)),
	)
}

func printHistory(ctx context.Context, cfg *config.Config, p *kv.Printer, limit int) error {
	store, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	records := make([][]kv.Pair, 0, len(entries))
	for _, e := range entries {
		records = append(records, []kv.Pair{
			kv.P("started", e.StartedAt.Local().Format(time.DateTime)),
			kv.P("platform", e.Platform),
			kv.P("invocation", strings.Join(e.Invocation, " ")),
			kv.P("outcome", e.Outcome),
			kv.Int("code", e.Code),
			kv.Pf("duration", "%dms", e.Duration.Milliseconds()),
		})
	}
	if err := p.PrintRecords(records); err != nil {
		return fmt.Errorf("print history: %w", err)
	}
	return nil
}
