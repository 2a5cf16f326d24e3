package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Severity is the urgency of a log message. Lower values are more urgent.
type Severity int

const (
	Emerg   Severity = iota // system is unusable
	Alert                   // action must be taken immediately
	Crit                    // critical conditions
	Err                     // error conditions
	Warning                 // warning conditions
	Notice                  // normal but significant condition
	Info                    // informational messages
	Debug                   // debug-level messages
	Spew                    // excessive debug messages
)

var (
	// ErrNotReady is returned by Emit when no lifecycle guard is held.
	ErrNotReady = errors.New("logger not ready")
	// ErrInvalidThreshold is returned for severity values outside the enumeration.
	ErrInvalidThreshold = errors.New("invalid log threshold")
)

var severityNames = [...]string{
	Emerg:   "emerg",
	Alert:   "alert",
	Crit:    "crit",
	Err:     "err",
	Warning: "warning",
	Notice:  "notice",
	Info:    "info",
	Debug:   "debug",
	Spew:    "spew",
}

// slog levels are ordered the other way round: more urgent means higher.
var severityLevels = [...]slog.Level{
	Emerg:   slog.Level(14),
	Alert:   slog.Level(12),
	Crit:    slog.Level(10),
	Err:     slog.LevelError,
	Warning: slog.LevelWarn,
	Notice:  slog.Level(2),
	Info:    slog.LevelInfo,
	Debug:   slog.LevelDebug,
	Spew:    slog.Level(-8),
}

// Valid reports whether s is one of the enumerated severities.
func (s Severity) Valid() bool {
	return s >= Emerg && s <= Spew
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Level returns the slog level used to render records of this severity.
func (s Severity) Level() slog.Level {
	if !s.Valid() {
		return slog.LevelInfo
	}
	return severityLevels[s]
}

// SeverityForLevel maps an slog level back to the most urgent severity whose
// level it reaches.
func SeverityForLevel(level slog.Level) Severity {
	for s := Emerg; s < Spew; s++ {
		if level >= severityLevels[s] {
			return s
		}
	}
	return Spew
}

// ParseSeverity resolves a severity name. Common aliases (error, warn) are accepted.
func ParseSeverity(value string) (Severity, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	switch name {
	case "error":
		return Err, nil
	case "warn":
		return Warning, nil
	}
	for s, candidate := range severityNames {
		if candidate == name {
			return Severity(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidThreshold, value)
}
