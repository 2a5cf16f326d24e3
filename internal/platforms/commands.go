package platforms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mosys/internal/kv"
	"mosys/internal/platform"
	"mosys/internal/sysinfo"
)

const (
	statusOK    = 0
	statusError = 1
	statusUsage = 2
)

var errUsage = errors.New("invalid arguments")

// leaf builds a command whose body prints through env's printer. Errors are
// logged and mapped to a nonzero status.
func leaf(env Env, path []string, description, usage string, run func(ctx context.Context, p *kv.Printer, args []string) error) platform.Command {
	full := strings.Join(path, " ")
	printer := env.printer()
	action := &platform.Action{
		Path:  strings.TrimSpace(env.Program + " " + full),
		Usage: usage,
		Out:   printer.Out,
		Run: func(ctx context.Context, args []string) int {
			if err := run(ctx, printer, args); err != nil {
				env.logger().Error("command failed",
					slog.String("command", full),
					slog.Any("error", err),
				)
				if errors.Is(err, errUsage) {
					return statusUsage
				}
				return statusError
			}
			return statusOK
		},
	}
	cmd := platform.NewLeaf(path[len(path)-1], description, action)
	cmd.Usage = usage
	return cmd
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected %q", errUsage, strings.Join(args, " "))
	}
	return nil
}

// ecSource reports EC details for "ec info".
type ecSource func(ctx context.Context) (sysinfo.ECInfo, error)

func ecGroup(env Env, src ecSource) platform.Command {
	return platform.NewGroup("ec", "EC information",
		leaf(env, []string{"ec", "info"}, "Print basic EC information", "", func(ctx context.Context, p *kv.Printer, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			info, err := src(ctx)
			if err != nil {
				return err
			}
			version := info.ROVersion
			if strings.EqualFold(info.Copy, "RW") && info.RWVersion != "" {
				version = info.RWVersion
			}
			return p.Print(
				kv.P("vendor", info.Vendor),
				kv.P("name", info.ChipName),
				kv.P("fw_version", version),
			)
		}),
	)
}

func sysfsEC(r sysinfo.Reader) ecSource {
	return func(context.Context) (sysinfo.ECInfo, error) {
		return r.CrosEC("cros_ec")
	}
}

// eepromSource lists flash parts for "eeprom list".
type eepromSource func(ctx context.Context) ([]sysinfo.MTDPartition, error)

func eepromGroup(env Env, src eepromSource) platform.Command {
	return platform.NewGroup("eeprom", "EEPROM Information",
		leaf(env, []string{"eeprom", "list"}, "List EEPROMs present in system and some basic info", "", func(ctx context.Context, p *kv.Printer, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			parts, err := src(ctx)
			if err != nil {
				return err
			}
			records := make([][]kv.Pair, 0, len(parts))
			for _, part := range parts {
				records = append(records, []kv.Pair{
					kv.P("name", part.Name),
					kv.Pf("size", "%d", part.Size),
					kv.P("units", "bytes"),
					kv.P("flags", strings.Join(part.Flags, ",")),
				})
			}
			return p.PrintRecords(records)
		}),
	)
}

func sysfsEEPROM(r sysinfo.Reader) eepromSource {
	return func(context.Context) ([]sysinfo.MTDPartition, error) {
		return r.MTD()
	}
}

// identity answers the "platform" getters. Missing entries report the value
// as undeterminable.
type identity map[string]func(ctx context.Context) (string, error)

var identityFields = []struct {
	key         string
	description string
}{
	{"vendor", "Display Platform Vendor"},
	{"name", "Display Platform Product Name"},
	{"model", "Display Model"},
	{"chassis", "Display Chassis ID"},
	{"sku", "Display SKU Number"},
	{"brand", "Display Brand Code"},
	{"customization", "Display Customization ID"},
	{"version", "Display Platform Version"},
	{"signature", "Display Signature ID"},
}

func platformGroup(env Env, id identity) platform.Command {
	children := make([]platform.Command, 0, len(identityFields))
	for _, field := range identityFields {
		key := field.key
		children = append(children, leaf(env, []string{"platform", key}, field.description, "", func(ctx context.Context, p *kv.Printer, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			get, ok := id[key]
			if !ok {
				return unavailable(key)
			}
			value, err := get(ctx)
			if err != nil {
				return fmt.Errorf("platform %s: %w", key, err)
			}
			if value == "" {
				return unavailable(key)
			}
			return p.Print(kv.P(key, value))
		}))
	}
	return platform.NewGroup("platform", "Platform Information", children...)
}

func constant(value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return value, nil }
}

func dmiField(r sysinfo.Reader, field string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return r.DMI(field) }
}

func kernelGroup(env Env) platform.Command {
	return platform.NewGroup("kernel", "Kernel information",
		leaf(env, []string{"kernel", "info"}, "Print running kernel identification", "", func(_ context.Context, p *kv.Printer, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			u, err := env.Reader.Uname()
			if err != nil {
				return err
			}
			return p.Print(
				kv.P("sysname", u.Sysname),
				kv.P("release", u.Release),
				kv.P("machine", u.Machine),
			)
		}),
	)
}

func devicesGroup(env Env) platform.Command {
	return platform.NewGroup("devices", "Device information",
		leaf(env, []string{"devices", "list"}, "List kernel devices, optionally for one subsystem", "[subsystem]", func(ctx context.Context, p *kv.Printer, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("%w: expected at most one subsystem", errUsage)
			}
			if env.Devices == nil {
				return fmt.Errorf("device enumeration: %w", sysinfo.ErrNotAvailable)
			}
			subsystem := ""
			if len(args) == 1 {
				subsystem = args[0]
			}
			devices, err := env.Devices.Devices(ctx, subsystem)
			if err != nil {
				return err
			}
			records := make([][]kv.Pair, 0, len(devices))
			for _, d := range devices {
				records = append(records, []kv.Pair{
					kv.P("path", d.Path),
					kv.P("subsystem", d.Subsystem),
					kv.P("driver", d.Driver),
					kv.P("devname", d.DevName),
				})
			}
			return p.PrintRecords(records)
		}),
	)
}
