package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmitBeforeAcquireIsNotReady(t *testing.T) {
	f := NewFacility()
	if err := f.Emit(Err, "too early"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if f.LastMessage() != "" {
		t.Fatalf("rejected message should not be captured, got %q", f.LastMessage())
	}
}

func TestEmitAfterReleaseIsNotReady(t *testing.T) {
	f := NewFacility()
	guard, err := f.Acquire(Options{Threshold: Err, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	guard.Release()
	if err := f.Emit(Err, "late"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady after release, got %v", err)
	}
}

func TestEmitFiltersByThreshold(t *testing.T) {
	var buf bytes.Buffer
	f := NewFacility()
	guard, err := f.Acquire(Options{Program: "mosys", Threshold: Warning, Writer: &buf})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer guard.Release()

	if err := f.Emit(Info, "quiet"); err != nil {
		t.Fatalf("Emit info: %v", err)
	}
	if err := f.Emit(Err, "loud", String("command", "ec info")); err != nil {
		t.Fatalf("Emit err: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info message should be filtered at warning threshold: %q", out)
	}
	if !strings.Contains(out, "mosys: ERR loud") {
		t.Fatalf("missing error line: %q", out)
	}
	if !strings.Contains(out, `command="ec info"`) {
		t.Fatalf("missing quoted attribute: %q", out)
	}
	if f.LastMessage() != "loud" {
		t.Fatalf("LastMessage = %q", f.LastMessage())
	}
}

func TestEmitRejectsInvalidSeverity(t *testing.T) {
	f := NewFacility()
	guard, err := f.Acquire(Options{Threshold: Err, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer guard.Release()

	if err := f.Emit(Severity(12), "bad"); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestIncreaseVerbositySaturatesAtSpew(t *testing.T) {
	f := NewFacility()
	if err := f.SetThreshold(Warning); err != nil {
		t.Fatalf("SetThreshold: %v", err)
	}
	want := []Severity{Notice, Info, Debug, Spew}
	for i, w := range want {
		f.IncreaseVerbosity()
		if got := f.Threshold(); got != w {
			t.Fatalf("step %d: threshold = %v, want %v", i+1, got, w)
		}
	}
	for range 3 {
		f.IncreaseVerbosity()
	}
	if got := f.Threshold(); got != Spew {
		t.Fatalf("threshold after saturation = %v, want spew", got)
	}
}

func TestSetThresholdRejectsInvalid(t *testing.T) {
	f := NewFacility()
	if err := f.SetThreshold(Severity(-1)); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
	if f.Threshold() != Err {
		t.Fatalf("threshold changed on invalid input: %v", f.Threshold())
	}
}

func TestSecondAcquireAppliesThreshold(t *testing.T) {
	f := NewFacility()
	first, err := f.Acquire(Options{Threshold: Err, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()
	second, err := f.Acquire(Options{Threshold: Debug, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	defer second.Release()

	if f.Threshold() != Debug {
		t.Fatalf("threshold = %v, want debug", f.Threshold())
	}
	if f.life.Count() != 2 {
		t.Fatalf("count = %d, want 2", f.life.Count())
	}
}

func TestAcquireRejectsUnknownFormat(t *testing.T) {
	f := NewFacility()
	_, err := f.Acquire(Options{Threshold: Err, Format: "xml", Writer: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if f.life.Active() {
		t.Fatal("failed acquisition must not hold a guard")
	}
}

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mosys.log")
	f := NewFacility()
	guard, err := f.Acquire(Options{Threshold: Notice, Writer: &bytes.Buffer{}, File: path})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := f.Emit(Notice, "platform resolved", String("platform", "Dummy")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	guard.Release()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		t.Fatal("log file is empty")
	}
	var rec map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["level"] != "notice" || rec["msg"] != "platform resolved" || rec["platform"] != "Dummy" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("record missing ts: %v", rec)
	}
}

func TestConsoleAddsSourceAtDebug(t *testing.T) {
	var buf bytes.Buffer
	f := NewFacility()
	guard, err := f.Acquire(Options{Threshold: Debug, Writer: &buf})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer guard.Release()

	if err := f.Emit(Debug, "matched"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(buf.String(), "DEBUG matched [facility_test.go:") {
		t.Fatalf("expected caller source suffix at debug: %q", buf.String())
	}
}

func TestJSONSourcePointsAtCaller(t *testing.T) {
	var buf bytes.Buffer
	f := NewFacility()
	guard, err := f.Acquire(Options{Threshold: Info, Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer guard.Release()

	if err := f.Emit(Notice, "platform resolved"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	src, _ := rec["source"].(string)
	if !strings.HasPrefix(src, "facility_test.go:") {
		t.Fatalf("source = %q, want this test file", src)
	}
}
