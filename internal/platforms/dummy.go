package platforms

import (
	"context"

	"mosys/internal/platform"
	"mosys/internal/sysinfo"
)

// DummyID names the canned platform used by tests.
const DummyID = "Dummy"

const dummyFlashSize = 8192

func dummyDescriptor(env Env) platform.Descriptor {
	return platform.Descriptor{
		ID:   DummyID,
		Type: platform.TypeForced,
		Build: func(context.Context) (*platform.Tree, error) {
			return &platform.Tree{Name: DummyID, Root: dummyCommands(env)}, nil
		},
	}
}

func dummyCommands(env Env) []platform.Command {
	ec := func(context.Context) (sysinfo.ECInfo, error) {
		return sysinfo.ECInfo{
			Name:      "cros_ec",
			Vendor:    "vendor",
			ChipName:  "name",
			ROVersion: "roversion",
			RWVersion: "rwversion",
			Copy:      "RO",
		}, nil
	}
	eeprom := func(context.Context) ([]sysinfo.MTDPartition, error) {
		return []sysinfo.MTDPartition{{
			Device: "mtd0",
			Name:   "host_firmware",
			Size:   dummyFlashSize,
			Flags:  []string{"read", "write"},
		}}, nil
	}
	id := identity{
		"vendor":        constant("Dummy Vendor"),
		"name":          constant(DummyID),
		"model":         constant("dummy"),
		"chassis":       constant("DUMMY"),
		"sku":           constant("0"),
		"brand":         constant("DUMM"),
		"customization": constant("dummy"),
		"version":       constant("rev0"),
		"signature":     constant("dummy"),
	}
	return []platform.Command{
		ecGroup(env, ec),
		eepromGroup(env, eeprom),
		platformGroup(env, id),
	}
}
