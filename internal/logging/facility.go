package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"mosys/internal/lifecycle"
)

// Facility is the process-wide logging state: the lifecycle counter that
// gates emission, the severity threshold, and the sink built on first use.
//
// Lock order is life before mu. Methods never acquire the counter while
// holding mu.
type Facility struct {
	life lifecycle.Counter

	mu        sync.Mutex
	opts      Options
	threshold Severity
	levelVar  *slog.LevelVar
	logger    *slog.Logger
	closer    io.Closer
	last      string
}

var std = NewFacility()

// Default returns the process-wide facility.
func Default() *Facility { return std }

// NewFacility returns an isolated facility with the threshold at Err.
func NewFacility() *Facility {
	f := &Facility{
		threshold: Err,
		levelVar:  new(slog.LevelVar),
		logger:    NewNop(),
	}
	f.levelVar.Set(Err.Level())
	f.life.Init = f.open
	f.life.Teardown = f.close
	return f
}

// Acquire registers a live user of the facility. The first acquisition opens
// the sink described by opts; every acquisition applies opts.Threshold.
// The returned guard must be released exactly once.
func (f *Facility) Acquire(opts Options) (*lifecycle.Guard, error) {
	if !opts.Threshold.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, int(opts.Threshold))
	}

	f.mu.Lock()
	f.opts = opts
	f.mu.Unlock()

	guard, err := f.life.Acquire()
	if err != nil {
		return nil, err
	}
	if err := f.SetThreshold(opts.Threshold); err != nil {
		guard.Release()
		return nil, err
	}
	return guard, nil
}

func (f *Facility) open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	handler, closer, err := newHandler(f.opts, f.levelVar)
	if err != nil {
		return err
	}
	f.logger = slog.New(handler)
	f.closer = closer
	return nil
}

func (f *Facility) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closer != nil {
		_ = f.closer.Close()
		f.closer = nil
	}
	f.logger = NewNop()
}

// SetThreshold replaces the current threshold.
func (f *Facility) SetThreshold(s Severity) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, int(s))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threshold = s
	f.levelVar.Set(s.Level())
	return nil
}

func (f *Facility) Threshold() Severity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threshold
}

// IncreaseVerbosity moves the threshold one step toward Spew. It saturates
// at Spew.
func (f *Facility) IncreaseVerbosity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.threshold < Spew {
		f.threshold++
		f.levelVar.Set(f.threshold.Level())
	}
}

// Emit writes msg when sev passes the threshold. It returns ErrNotReady when
// no guard is held anywhere in the process.
func (f *Facility) Emit(sev Severity, msg string, attrs ...slog.Attr) error {
	if !f.life.Active() {
		return ErrNotReady
	}
	if !sev.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, int(sev))
	}

	f.mu.Lock()
	f.last = msg
	logger := f.logger
	f.mu.Unlock()

	ctx := context.Background()
	handler := logger.Handler()
	if !handler.Enabled(ctx, sev.Level()) {
		return nil
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) // skip Callers and Emit
	record := slog.NewRecord(time.Now(), sev.Level(), msg, pcs[0])
	record.AddAttrs(attrs...)
	return handler.Handle(ctx, record)
}

// Logger returns the slog logger backing the facility. It discards records
// while no guard is held.
func (f *Facility) Logger() *slog.Logger {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logger
}
