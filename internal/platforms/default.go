package platforms

import (
	"context"
	"errors"

	"mosys/internal/platform"
	"mosys/internal/sysinfo"
)

// DefaultID names the fallback platform.
const DefaultID = "Default"

func defaultDescriptor(env Env) platform.Descriptor {
	r := env.Reader
	return platform.Descriptor{
		ID:    DefaultID,
		Type:  platform.TypeDefault,
		Probe: func(context.Context) (bool, error) { return true, nil },
		Build: func(context.Context) (*platform.Tree, error) {
			id := identity{
				"vendor":  dmiField(r, "sys_vendor"),
				"name":    defaultName(r),
				"version": dmiField(r, "product_version"),
			}
			return &platform.Tree{Name: DefaultID, Root: []platform.Command{
				devicesGroup(env),
				eepromGroup(env, sysfsEEPROM(r)),
				kernelGroup(env),
				platformGroup(env, id),
			}}, nil
		},
	}
}

// defaultName prefers the SMBIOS product name and falls back to the
// device-tree model.
func defaultName(r sysinfo.Reader) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		name, err := r.DMI("product_name")
		if err == nil && name != "" {
			return name, nil
		}
		if err != nil && !errors.Is(err, sysinfo.ErrNotAvailable) {
			return "", err
		}
		return r.FDTModel()
	}
}
