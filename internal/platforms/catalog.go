package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"mosys/internal/kv"
	"mosys/internal/platform"
	"mosys/internal/sysinfo"
)

// Env carries the collaborators every platform tree is built from.
type Env struct {
	Reader  sysinfo.Reader
	Devices sysinfo.DeviceSource
	Printer *kv.Printer
	Logger  *slog.Logger
	// Program prefixes leaf usage lines.
	Program string
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e Env) printer() *kv.Printer {
	if e.Printer == nil {
		return &kv.Printer{}
	}
	return e.Printer
}

// Catalog registers every known platform. Boards are probed in the order
// listed; Default is consulted last.
func Catalog(env Env) (*platform.Registry, error) {
	reg := platform.NewRegistry(env.Logger)
	descs := []platform.Descriptor{
		dummyDescriptor(env),
		samusDescriptor(env),
		kukuiDescriptor(env),
		defaultDescriptor(env),
	}
	for _, d := range descs {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// matchDMI probes the DMI product name case-insensitively.
func matchDMI(r sysinfo.Reader, names ...string) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		product, err := r.DMI("product_name")
		if err != nil {
			return false, err
		}
		return slices.ContainsFunc(names, func(n string) bool {
			return strings.EqualFold(n, product)
		}), nil
	}
}

// matchFDT probes the device-tree compatible list.
func matchFDT(r sysinfo.Reader, compatible ...string) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		got, err := r.FDTCompatible()
		if err != nil {
			return false, err
		}
		for _, c := range got {
			if slices.Contains(compatible, c) {
				return true, nil
			}
		}
		return false, nil
	}
}

func unavailable(key string) error {
	return fmt.Errorf("unable to determine platform %s: %w", key, sysinfo.ErrNotAvailable)
}
