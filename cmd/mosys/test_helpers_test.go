package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mosys/internal/config"
	"mosys/internal/logging"
	"mosys/internal/platform"
	"mosys/internal/platforms"
	"mosys/internal/sysinfo"
	"mosys/internal/testsupport"
)

type fakeDevices []sysinfo.Device

func (f fakeDevices) Devices(_ context.Context, subsystem string) ([]sysinfo.Device, error) {
	var out []sysinfo.Device
	for _, d := range f {
		if subsystem == "" || d.Subsystem == subsystem {
			out = append(out, d)
		}
	}
	return out, nil
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	facility   *logging.Facility
	devices    sysinfo.DeviceSource
	catalog    func(platforms.Env) (platform.Provider, error)
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{
		testsupport.WithRootPrefix(testsupport.NewFakeRoot(t).Path),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		facility:   logging.NewFacility(),
		devices: fakeDevices{
			{Path: "/sys/devices/platform/serial8250/tty/ttyS0", Subsystem: "tty", DevName: "/dev/ttyS0"},
		},
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// runCLI executes the root command and returns stdout, stderr and the exit
// code main would use.
func (env *cliTestEnv) runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := newRootCommandWith(runtimeDeps{facility: env.facility, devices: env.devices, catalog: env.catalog})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), exitCodeOf(err)
}

// blockingCatalog provides a single forced platform, "Slow", whose "ec info"
// leaf ignores ctx and returns only when release is closed.
func blockingCatalog(release <-chan struct{}) func(platforms.Env) (platform.Provider, error) {
	return func(platforms.Env) (platform.Provider, error) {
		hang := &platform.Action{
			Path: "mosys ec info",
			Run: func(context.Context, []string) int {
				<-release
				return 0
			},
		}
		reg := platform.NewRegistry(nil)
		err := reg.Register(platform.Descriptor{
			ID:   "Slow",
			Type: platform.TypeForced,
			Build: func(context.Context) (*platform.Tree, error) {
				return &platform.Tree{Root: []platform.Command{
					platform.NewGroup("ec", "EC information",
						platform.NewLeaf("info", "Never returns on its own", hang)),
				}}, nil
			},
		})
		if err != nil {
			return nil, err
		}
		return reg, nil
	}
}
