package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"

	"mosys/internal/platform"
)

// PrintTree renders the capability tree. Verbose output tags each node as
// [root], [branch] or [leaf] and shows its full command path followed by the
// leaf's argument synopsis.
func PrintTree(out io.Writer, program string, tree *platform.Tree, verbose bool) error {
	if tree == nil || len(tree.Root) == 0 {
		return ErrNoCommandsDefined
	}
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedLight)
	for _, cmd := range tree.Root {
		appendNode(lw, cmd, []string{program}, true, verbose)
	}
	rendered := lw.Render()
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err := io.WriteString(out, rendered)
	return err
}

func appendNode(lw list.Writer, cmd platform.Command, parent []string, root, verbose bool) {
	path := append(append([]string(nil), parent...), cmd.Name)
	lw.AppendItem(nodeLabel(cmd, path, root, verbose))

	children := cmd.Children()
	if len(children) == 0 {
		return
	}
	lw.Indent()
	for _, child := range children {
		appendNode(lw, child, path, false, verbose)
	}
	lw.UnIndent()
}

func nodeLabel(cmd platform.Command, path []string, root, verbose bool) string {
	if !verbose {
		return cmd.Name
	}
	marker := "[leaf]"
	switch {
	case root:
		marker = "[root]"
	case !cmd.IsLeaf():
		marker = "[branch]"
	}
	label := fmt.Sprintf("%s %s", marker, strings.TrimSpace(strings.Join(path, " ")))
	if cmd.IsLeaf() && cmd.Usage != "" {
		label += " " + cmd.Usage
	}
	return label
}
