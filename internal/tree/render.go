package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/Project-Sylos/Courier/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// indent is the prefix added per level
const indent = "  "

// RenderOptions controls Render and RenderShallow
type RenderOptions struct {
	MaxDepth int  // deepest level printed, 0 means unlimited
	ShowIDs  bool // append the content id
	ShowSize bool // append the humanized file size
	FullPath bool // print slash joined paths instead of names
	NoIndent bool // do not indent by depth
}

type line struct {
	label string
	node  *types.Content
}

// Render prints root and its descendants, one "name  type" line each,
// indented two spaces per level
func Render(w io.Writer, root *types.Content, opts RenderOptions) error {
	var (
		lines []line
		path  []string
	)

	err := Walk(root, func(node *types.Content, depth int) error {
		path = append(path[:depth], node.Name)

		label := node.Name
		if opts.FullPath {
			label = utils.JoinPath(path...)
		}
		if !opts.NoIndent && !opts.FullPath {
			label = strings.Repeat(indent, depth) + label
		}
		lines = append(lines, line{label: label, node: node})

		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		return err
	}

	return writeLines(w, lines, opts)
}

// RenderShallow prints the already fetched children of node, without
// descending
func RenderShallow(w io.Writer, node *types.Content, opts RenderOptions) error {
	children := Children(node)
	lines := make([]line, 0, len(children))
	for _, child := range children {
		label := child.Name
		if opts.FullPath {
			label = utils.JoinPath(node.Name, child.Name)
		}
		lines = append(lines, line{label: label, node: child})
	}
	return writeLines(w, lines, opts)
}

func writeLines(w io.Writer, lines []line, opts RenderOptions) error {
	width := 0
	for _, l := range lines {
		if n := runewidth.StringWidth(l.label); n > width {
			width = n
		}
	}

	for _, l := range lines {
		var b strings.Builder
		b.WriteString(runewidth.FillRight(l.label, width))
		b.WriteString(indent)
		b.WriteString(l.node.Type)
		if opts.ShowSize {
			b.WriteString(indent)
			if l.node.IsFolder() {
				b.WriteString("-")
			} else {
				b.WriteString(humanize.Bytes(uint64(l.node.Size)))
			}
		}
		if opts.ShowIDs {
			b.WriteString(indent)
			b.WriteString(l.node.ID)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

// String returns a one line summary
func (s Stats) String() string {
	return fmt.Sprintf("%d folders, %d files, %s", s.Folders, s.Files, humanize.Bytes(uint64(s.Bytes)))
}
