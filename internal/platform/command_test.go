package platform_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"mosys/internal/platform"
)

func noop() *platform.Action {
	return &platform.Action{Run: func(context.Context, []string) int { return 0 }}
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	tree := &platform.Tree{Name: "test", Root: []platform.Command{
		platform.NewGroup("ec", "EC information",
			platform.NewLeaf("info", "Print EC info", noop()),
		),
		platform.NewLeaf("reset", "Reset the machine", noop()),
	}}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsMalformedTrees(t *testing.T) {
	tests := []struct {
		name string
		root []platform.Command
	}{
		{"empty name", []platform.Command{platform.NewLeaf("", "x", noop())}},
		{"missing description", []platform.Command{platform.NewLeaf("info", "", noop())}},
		{"nil invocable", []platform.Command{platform.NewLeaf("info", "x", nil)}},
		{"nil body", []platform.Command{{Name: "info", Description: "x"}}},
		{"case-insensitive duplicate", []platform.Command{
			platform.NewLeaf("ec", "x", noop()),
			platform.NewGroup("EC", "y"),
		}},
		{"nested duplicate", []platform.Command{
			platform.NewGroup("ec", "x",
				platform.NewLeaf("info", "a", noop()),
				platform.NewLeaf("Info", "b", noop()),
			),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &platform.Tree{Root: tt.root}
			if err := tree.Validate(); !errors.Is(err, platform.ErrInvalidTree) {
				t.Fatalf("expected ErrInvalidTree, got %v", err)
			}
		})
	}
}

func TestCommandAccessors(t *testing.T) {
	leaf := platform.NewLeaf("info", "x", noop())
	group := platform.NewGroup("ec", "y", leaf)
	if !leaf.IsLeaf() || group.IsLeaf() {
		t.Fatal("IsLeaf mismatch")
	}
	if leaf.Children() != nil {
		t.Fatal("leaf should have no children")
	}
	if got := group.Children(); len(got) != 1 || got[0].Name != "info" {
		t.Fatalf("unexpected children: %+v", got)
	}
}

func TestActionPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	a := &platform.Action{Path: "eeprom dump", Usage: "<name>", Out: &buf}
	a.PrintUsage()
	if got, want := buf.String(), "usage: eeprom dump <name>\n\n"; got != want {
		t.Fatalf("PrintUsage = %q, want %q", got, want)
	}
	if code := a.Invoke(context.Background(), nil); code != 1 {
		t.Fatalf("Invoke without Run = %d, want 1", code)
	}
}
