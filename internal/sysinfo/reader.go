package sysinfo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	dmiDir        = "sys/class/dmi/id"
	fdtCompatible = "proc/device-tree/compatible"
	fdtModel      = "proc/device-tree/model"
	crosECDir     = "sys/class/chromeos"
	mtdDir        = "sys/class/mtd"
)

// ErrNotAvailable is returned when the requested source is absent on this machine.
var ErrNotAvailable = errors.New("not available")

// Reader resolves sysfs and procfs paths under Root. An empty Root means "/".
type Reader struct {
	Root string
}

func (r Reader) path(rel string) string {
	root := r.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(root, rel)
}

func (r Reader) readTrimmed(rel string) (string, error) {
	data, err := os.ReadFile(r.path(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", rel, ErrNotAvailable)
		}
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return strings.TrimSpace(string(bytes.TrimRight(data, "\x00"))), nil
}

// DMI returns one SMBIOS field exported by the kernel, e.g. "product_name".
func (r Reader) DMI(field string) (string, error) {
	return r.readTrimmed(filepath.Join(dmiDir, field))
}

// FDTCompatible returns the device-tree compatible list, most specific first.
func (r Reader) FDTCompatible() ([]string, error) {
	data, err := os.ReadFile(r.path(fdtCompatible))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", fdtCompatible, ErrNotAvailable)
		}
		return nil, fmt.Errorf("read %s: %w", fdtCompatible, err)
	}
	var out []string
	for _, part := range bytes.Split(data, []byte{0}) {
		if s := strings.TrimSpace(string(part)); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// FDTModel returns the device-tree model string.
func (r Reader) FDTModel() (string, error) {
	return r.readTrimmed(fdtModel)
}

// ECInfo is the version report of a ChromeOS embedded controller.
type ECInfo struct {
	Name      string
	ROVersion string
	RWVersion string
	Copy      string
	Build     string
	ChipName  string
	Vendor    string
}

// CrosEC parses /sys/class/chromeos/<dev>/version.
func (r Reader) CrosEC(dev string) (ECInfo, error) {
	raw, err := r.readTrimmed(filepath.Join(crosECDir, dev, "version"))
	if err != nil {
		return ECInfo{}, err
	}
	info := ECInfo{Name: dev}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "ro version":
			info.ROVersion = value
		case "rw version":
			info.RWVersion = value
		case "firmware copy":
			info.Copy = value
		case "build info":
			info.Build = value
		case "chip info":
			fields := strings.Fields(value)
			if len(fields) > 0 {
				info.Vendor = fields[0]
			}
			if len(fields) > 1 {
				info.ChipName = fields[1]
			}
		}
	}
	return info, scanner.Err()
}

// ECDevices lists the ChromeOS EC class devices present, sorted by name.
func (r Reader) ECDevices() ([]string, error) {
	return r.listDir(crosECDir)
}

// MTDPartition describes one flash partition exported through the MTD class.
type MTDPartition struct {
	Device string
	Name   string
	Size   int64
	Flags  []string
}

// MTD lists flash partitions under /sys/class/mtd, skipping read-only aliases.
func (r Reader) MTD() ([]MTDPartition, error) {
	names, err := r.listDir(mtdDir)
	if err != nil {
		return nil, err
	}
	var parts []MTDPartition
	for _, dev := range names {
		if strings.HasSuffix(dev, "ro") {
			continue
		}
		name, err := r.readTrimmed(filepath.Join(mtdDir, dev, "name"))
		if err != nil {
			return nil, err
		}
		sizeText, err := r.readTrimmed(filepath.Join(mtdDir, dev, "size"))
		if err != nil {
			return nil, err
		}
		size, err := strconv.ParseInt(sizeText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s size: %w", dev, err)
		}
		flags := []string{"read"}
		if raw, err := r.readTrimmed(filepath.Join(mtdDir, dev, "flags")); err == nil {
			if v, perr := strconv.ParseUint(raw, 0, 64); perr == nil && v&0x400 != 0 {
				flags = append(flags, "write")
			}
		}
		parts = append(parts, MTDPartition{Device: dev, Name: name, Size: size, Flags: flags})
	}
	return parts, nil
}

func (r Reader) listDir(rel string) ([]string, error) {
	entries, err := os.ReadDir(r.path(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNotAvailable)
		}
		return nil, fmt.Errorf("list %s: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Uname is the kernel identification of the running system.
type Uname struct {
	Sysname string
	Release string
	Version string
	Machine string
}

// Uname queries the running kernel. It ignores Root.
func (r Reader) Uname() (Uname, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Uname{}, fmt.Errorf("uname: %w", err)
	}
	return Uname{
		Sysname: unix.ByteSliceToString(u.Sysname[:]),
		Release: unix.ByteSliceToString(u.Release[:]),
		Version: unix.ByteSliceToString(u.Version[:]),
		Machine: unix.ByteSliceToString(u.Machine[:]),
	}, nil
}
