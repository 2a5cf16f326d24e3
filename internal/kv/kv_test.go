package kv

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() []Pair {
	return []Pair{P("name", "host_firmware"), Int("size", 8192), P("units", "bytes")}
}

func TestPrintStyles(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"value", StyleValue, "host_firmware | 8192 | bytes\n"},
		{"pair", StylePair, `name="host_firmware" size="8192" units="bytes"` + "\n"},
		{"long", StyleLong,
			"name                 | host_firmware\n" +
				"size                 | 8192\n" +
				"units                | bytes\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := &Printer{Style: tt.style, Out: &buf}
			if err := p.Print(sample()...); err != nil {
				t.Fatalf("Print: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintSingle(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Style: StyleSingle, SingleKey: "size", Out: &buf}
	if err := p.Print(sample()...); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "8192\n" {
		t.Fatalf("output = %q", buf.String())
	}

	p.SingleKey = "missing"
	if err := p.Print(sample()...); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestPrintRecordsLongRendersTable(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Style: StyleLong, Out: &buf}
	records := [][]Pair{
		sample(),
		{P("name", "ec"), Int("size", 131072), P("units", "bytes")},
	}
	if err := p.PrintRecords(records); err != nil {
		t.Fatalf("PrintRecords: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "host_firmware", "131072", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRecordsValue(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}
	if err := p.PrintRecords([][]Pair{{P("a", "1")}, {P("a", "2")}}); err != nil {
		t.Fatalf("PrintRecords: %v", err)
	}
	if buf.String() != "1\n2\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestParseStyle(t *testing.T) {
	for name, want := range map[string]Style{"": StyleValue, "VALUE": StyleValue, "pair": StylePair, "long": StyleLong, "single": StyleSingle} {
		got, err := ParseStyle(name)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseStyle("fancy"); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("expected ErrInvalidStyle, got %v", err)
	}
}

