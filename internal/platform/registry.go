package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// ErrUnsupported is returned when no registered platform matches.
var ErrUnsupported = errors.New("platform not supported")

// Provider resolves a platform id to its capability tree. An empty id asks
// the provider to identify the running machine.
type Provider interface {
	Resolve(ctx context.Context, id string) (*Tree, error)
	Platforms() []string
}

// Type classifies how a descriptor participates in detection.
type Type int

const (
	// TypeBoard is matched by probing hardware identity.
	TypeBoard Type = iota
	// TypeForced is only used when selected by id.
	TypeForced
	// TypeDefault is the fallback probed last. It is hidden from Platforms.
	TypeDefault
)

// Descriptor registers one platform with a Registry.
type Descriptor struct {
	ID   string
	Type Type
	// Probe reports whether the running machine is this platform. A nil
	// Probe never matches.
	Probe func(ctx context.Context) (bool, error)
	Build func(ctx context.Context) (*Tree, error)
}

// Registry is a Provider backed by registered descriptors.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	descs []Descriptor
}

// NewRegistry returns an empty registry. Probe failures are logged at debug.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{logger: logger}
}

// Register appends d. Detection probes descriptors in registration order.
func (r *Registry) Register(d Descriptor) error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("register platform: empty id")
	}
	if d.Build == nil {
		return fmt.Errorf("register platform %s: nil build", d.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fold := cases.Fold()
	for _, existing := range r.descs {
		if fold.String(existing.ID) == fold.String(d.ID) {
			return fmt.Errorf("register platform %s: duplicate id", d.ID)
		}
	}
	r.descs = append(r.descs, d)
	return nil
}

// Platforms lists the registered ids in registration order, excluding the
// default fallback.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.descs))
	for _, d := range r.descs {
		if d.Type == TypeDefault {
			continue
		}
		ids = append(ids, d.ID)
	}
	return ids
}

// Resolve selects a platform: an explicit id matched case-insensitively, the
// only registered platform, or the first descriptor whose probe matches.
func (r *Registry) Resolve(ctx context.Context, id string) (*Tree, error) {
	desc, err := r.lookup(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	tree, err := desc.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build platform %s: %w", desc.ID, err)
	}
	if tree.Name == "" {
		tree.Name = desc.ID
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("build platform %s: %w", desc.ID, err)
	}
	return tree, nil
}

func (r *Registry) lookup(ctx context.Context, id string) (Descriptor, error) {
	r.mu.RLock()
	descs := append([]Descriptor(nil), r.descs...)
	r.mu.RUnlock()

	if id != "" {
		fold := cases.Fold()
		want := fold.String(id)
		for _, d := range descs {
			if fold.String(d.ID) == want {
				return d, nil
			}
		}
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}

	if len(descs) == 1 {
		return descs[0], nil
	}

	// Boards are probed in registration order; defaults only after every board.
	ordered := make([]Descriptor, 0, len(descs))
	var defaults []Descriptor
	for _, d := range descs {
		switch d.Type {
		case TypeForced:
		case TypeDefault:
			defaults = append(defaults, d)
		default:
			ordered = append(ordered, d)
		}
	}
	for _, d := range append(ordered, defaults...) {
		if d.Probe == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Descriptor{}, err
		}
		ok, err := d.Probe(ctx)
		if err != nil {
			r.logger.Debug("platform probe failed",
				slog.String("platform", d.ID),
				slog.Any("error", err),
			)
			continue
		}
		if ok {
			return d, nil
		}
	}
	return Descriptor{}, ErrUnsupported
}
