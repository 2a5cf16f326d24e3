package platforms

import (
	"context"
	"strings"

	"mosys/internal/platform"
)

// Samus is identified by its SMBIOS product name.
func samusDescriptor(env Env) platform.Descriptor {
	r := env.Reader
	return platform.Descriptor{
		ID:    "Samus",
		Type:  platform.TypeBoard,
		Probe: matchDMI(r, "Samus"),
		Build: func(context.Context) (*platform.Tree, error) {
			id := identity{
				"vendor":  dmiField(r, "sys_vendor"),
				"name":    constant("Samus"),
				"model":   constant("samus"),
				"version": dmiField(r, "product_version"),
				"sku": func(context.Context) (string, error) {
					sku, err := r.DMI("product_sku")
					return strings.TrimPrefix(strings.ToLower(sku), "sku"), err
				},
			}
			return &platform.Tree{Name: "Samus", Root: []platform.Command{
				ecGroup(env, sysfsEC(r)),
				eepromGroup(env, sysfsEEPROM(r)),
				platformGroup(env, id),
			}}, nil
		},
	}
}

// Kukui is an ARM board identified through the device tree.
func kukuiDescriptor(env Env) platform.Descriptor {
	r := env.Reader
	return platform.Descriptor{
		ID:    "Kukui",
		Type:  platform.TypeBoard,
		Probe: matchFDT(r, "google,kukui"),
		Build: func(context.Context) (*platform.Tree, error) {
			id := identity{
				"vendor": constant("Google"),
				"name":   constant("Kukui"),
				"model":  constant("kukui"),
				"version": func(context.Context) (string, error) {
					compatible, err := r.FDTCompatible()
					if err != nil {
						return "", err
					}
					for _, c := range compatible {
						if rev, ok := strings.CutPrefix(c, "google,kukui-"); ok {
							return rev, nil
						}
					}
					return "", unavailable("version")
				},
			}
			return &platform.Tree{Name: "Kukui", Root: []platform.Command{
				ecGroup(env, sysfsEC(r)),
				eepromGroup(env, sysfsEEPROM(r)),
				platformGroup(env, id),
			}}, nil
		},
	}
}
