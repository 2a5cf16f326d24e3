package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mosys/internal/config"
)

func writeSampleConfig(out io.Writer, target string, overwrite bool) error {
	target, err := config.ExpandPath(strings.TrimSpace(target))
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}
	fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
	return nil
}
