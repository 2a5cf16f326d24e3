package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeRoot is a temporary filesystem root laid out like sysfs and procfs.
type FakeRoot struct {
	t    testing.TB
	Path string
}

// NewFakeRoot creates an empty fake root under t.TempDir.
func NewFakeRoot(t testing.TB) *FakeRoot {
	t.Helper()
	return &FakeRoot{t: t, Path: t.TempDir()}
}

// WriteFile writes content at rel, creating parent directories.
func (r *FakeRoot) WriteFile(rel, content string) *FakeRoot {
	r.t.Helper()
	target := filepath.Join(r.Path, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", rel, err)
	}
	return r
}

// DMI sets /sys/class/dmi/id/<field>.
func (r *FakeRoot) DMI(field, value string) *FakeRoot {
	r.t.Helper()
	return r.WriteFile(filepath.Join("sys/class/dmi/id", field), value+"\n")
}

// FDT sets the device-tree compatible list and, when non-empty, the model.
func (r *FakeRoot) FDT(model string, compatible ...string) *FakeRoot {
	r.t.Helper()
	r.WriteFile("proc/device-tree/compatible", strings.Join(compatible, "\x00")+"\x00")
	if model != "" {
		r.WriteFile("proc/device-tree/model", model+"\x00")
	}
	return r
}

// CrosEC writes a version report for the named EC class device.
func (r *FakeRoot) CrosEC(dev, ro, rw, chip string) *FakeRoot {
	r.t.Helper()
	report := fmt.Sprintf("RO version:    %s\nRW version:    %s\nFirmware copy: RW\nBuild info:    %s\nChip info:     %s\n", ro, rw, rw, chip)
	return r.WriteFile(filepath.Join("sys/class/chromeos", dev, "version"), report)
}

// MTD writes an MTD class device describing one flash partition.
func (r *FakeRoot) MTD(dev, name string, size int64, writable bool) *FakeRoot {
	r.t.Helper()
	base := filepath.Join("sys/class/mtd", dev)
	flags := "0x0"
	if writable {
		flags = "0x400"
	}
	r.WriteFile(filepath.Join(base, "name"), name+"\n")
	r.WriteFile(filepath.Join(base, "size"), fmt.Sprintf("%d\n", size))
	return r.WriteFile(filepath.Join(base, "flags"), flags+"\n")
}
