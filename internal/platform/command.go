package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Invocable is the operation a Leaf delegates to. Invoke runs synchronously
// and returns a process-style status where zero means success.
type Invocable interface {
	Invoke(ctx context.Context, args []string) int
	PrintUsage()
}

// Body is the payload of a Command: either Leaf or Group.
type Body interface {
	isBody()
}

// Leaf is a terminal command.
type Leaf struct {
	Invocable Invocable
}

// Group holds child commands in declared order.
type Group struct {
	Children []Command
}

func (Leaf) isBody()  {}
func (Group) isBody() {}

// Command is one node of a capability tree.
type Command struct {
	Name        string
	Description string
	Usage       string
	Body        Body
}

// NewLeaf builds a leaf command.
func NewLeaf(name, description string, inv Invocable) Command {
	return Command{Name: name, Description: description, Body: Leaf{Invocable: inv}}
}

// NewGroup builds a group command.
func NewGroup(name, description string, children ...Command) Command {
	return Command{Name: name, Description: description, Body: Group{Children: children}}
}

// IsLeaf reports whether c terminates resolution.
func (c Command) IsLeaf() bool {
	_, ok := c.Body.(Leaf)
	return ok
}

// Children returns the group's children, or nil for a leaf.
func (c Command) Children() []Command {
	if g, ok := c.Body.(Group); ok {
		return g.Children
	}
	return nil
}

// Tree is the capability tree of one platform.
type Tree struct {
	Name string
	Root []Command
}

var ErrInvalidTree = errors.New("invalid capability tree")

// Validate checks names, descriptions, leaf payloads, and case-insensitive
// sibling uniqueness across the whole tree.
func (t *Tree) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidTree)
	}
	return validateSiblings(t.Root, nil)
}

func validateSiblings(cmds []Command, path []string) error {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(cmds))
	for _, cmd := range cmds {
		full := strings.Join(append(append([]string(nil), path...), cmd.Name), " ")
		if strings.TrimSpace(cmd.Name) == "" {
			return fmt.Errorf("%w: empty command name under %q", ErrInvalidTree, strings.Join(path, " "))
		}
		if strings.TrimSpace(cmd.Description) == "" {
			return fmt.Errorf("%w: %q has no description", ErrInvalidTree, full)
		}
		key := fold.String(cmd.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate command %q", ErrInvalidTree, full)
		}
		seen[key] = struct{}{}

		switch body := cmd.Body.(type) {
		case Leaf:
			if body.Invocable == nil {
				return fmt.Errorf("%w: leaf %q has no invocable", ErrInvalidTree, full)
			}
		case Group:
			if err := validateSiblings(body.Children, append(path, cmd.Name)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %q has no body", ErrInvalidTree, full)
		}
	}
	return nil
}
