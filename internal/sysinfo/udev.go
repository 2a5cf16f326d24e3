package sysinfo

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"
)

// Device is one kernel device known to udev.
type Device struct {
	Path      string
	Subsystem string
	Driver    string
	DevName   string
}

// DeviceSource enumerates devices, optionally limited to one subsystem.
type DeviceSource interface {
	Devices(ctx context.Context, subsystem string) ([]Device, error)
}

// UdevSource enumerates devices already present under /sys/devices.
type UdevSource struct {
	Logger *slog.Logger
}

// Devices walks the existing device tree and returns matches sorted by path.
// Walk errors for individual entries are logged and skipped.
func (s UdevSource) Devices(ctx context.Context, subsystem string) ([]Device, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	queue := make(chan crawler.Device)
	errs := make(chan error, 1)
	quit := crawler.ExistingDevices(queue, errs, subsystemMatcher(subsystem))

	var devices []Device
	for {
		select {
		case <-ctx.Done():
			close(quit)
			go drain(queue, errs)
			return nil, ctx.Err()
		case err := <-errs:
			logger.Debug("udev walk error", slog.Any("error", err))
		case dev, ok := <-queue:
			if !ok {
				sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
				return devices, nil
			}
			devices = append(devices, Device{
				Path:      dev.KObj,
				Subsystem: dev.Env["SUBSYSTEM"],
				Driver:    dev.Env["DRIVER"],
				DevName:   dev.Env["DEVNAME"],
			})
		}
	}
}

func subsystemMatcher(subsystem string) netlink.Matcher {
	if subsystem == "" {
		return nil
	}
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Env: map[string]string{
			"SUBSYSTEM": "^" + regexp.QuoteMeta(subsystem) + "$",
		},
	})
	return rules
}

// drain consumes an abandoned walk until the crawler closes queue so it never
// blocks on either channel.
func drain(queue <-chan crawler.Device, errs <-chan error) {
	for {
		select {
		case _, ok := <-queue:
			if !ok {
				return
			}
		case <-errs:
		}
	}
}
