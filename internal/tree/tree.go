// Package tree lists folder contents recursively.
//
// Listing happens in two steps: Fetch pulls a folder and every sub-folder
// from the service into one in-memory tree, then Walk or Render traverse
// that tree depth first in pre-order without touching the network.
package tree

import (
	"context"
	"fmt"
	"sort"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
)

var (
	// SkipChildren can be returned by a visit function to skip the
	// children of the node just visited
	SkipChildren = errors.New("skip children")

	// ErrCycle is returned when a folder shows up twice in one tree
	ErrCycle = errors.New("content tree contains a cycle")
)

// Getter fetches a single content with its direct children
type Getter interface {
	GetContent(ctx context.Context, contentID, token string) (*types.Content, error)
}

// VisitFunc is called for every node, depth 0 being the root
type VisitFunc func(node *types.Content, depth int) error

// Children returns the direct children of node ordered by name, then id
func Children(node *types.Content) []*types.Content {
	if node == nil || len(node.Contents) == 0 {
		return nil
	}

	children := make([]*types.Content, 0, len(node.Contents))
	for id, child := range node.Contents {
		if child == nil {
			continue
		}
		if child.ID == "" {
			child.ID = id
		}
		children = append(children, child)
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].Name != children[j].Name {
			return children[i].Name < children[j].Name
		}
		return children[i].ID < children[j].ID
	})
	return children
}

// Walk visits root and its descendants depth first in pre-order. Returning
// SkipChildren from visit prunes the subtree of that node; any other error
// stops the walk and is returned.
func Walk(root *types.Content, visit VisitFunc) error {
	if root == nil {
		return nil
	}
	onPath := make(map[*types.Content]bool)
	return walk(root, 0, visit, onPath)
}

func walk(node *types.Content, depth int, visit VisitFunc, onPath map[*types.Content]bool) error {
	if onPath[node] {
		return errors.Wrapf(ErrCycle, "at %s", node.ID)
	}

	if err := visit(node, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}

	onPath[node] = true
	defer delete(onPath, node)

	for _, child := range Children(node) {
		if err := walk(child, depth+1, visit, onPath); err != nil {
			return err
		}
	}
	return nil
}

// FetchOptions controls Fetch
type FetchOptions struct {
	// MaxDepth is the deepest level whose nodes are fetched, the root's
	// children being level 1. 0 means unlimited.
	MaxDepth int
}

// Fetch pulls rootID and, depth first, the contents of every sub-folder,
// grafting each fetched folder in place of its summary in the parent.
func Fetch(ctx context.Context, getter Getter, rootID, token string, opts FetchOptions) (*types.Content, error) {
	root, err := getter.GetContent(ctx, rootID, token)
	if err != nil {
		return nil, err
	}
	if root.ID == "" {
		root.ID = rootID
	}

	seen := map[string]bool{root.ID: true}
	if err := graft(ctx, getter, root, 1, token, opts, seen); err != nil {
		return nil, err
	}
	return root, nil
}

// graft fetches the folder children of node, whose own children sit at depth
func graft(ctx context.Context, getter Getter, node *types.Content, depth int, token string, opts FetchOptions, seen map[string]bool) error {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	for _, child := range Children(node) {
		if !child.IsFolder() {
			continue
		}
		if seen[child.ID] {
			return errors.Wrapf(ErrCycle, "folder %s is reachable twice", child.ID)
		}
		seen[child.ID] = true

		if err := ctx.Err(); err != nil {
			return err
		}

		full, err := getter.GetContent(ctx, child.ID, token)
		if err != nil {
			return fmt.Errorf("failed to fetch folder %s: %w", child.ID, err)
		}
		if full.ID == "" {
			full.ID = child.ID
		}
		node.Contents[child.ID] = full

		if err := graft(ctx, getter, full, depth+1, token, opts, seen); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts the descendants of a node
type Stats struct {
	Folders int
	Files   int
	Bytes   int64
}

// Count returns the number of folders, files and bytes below root
func Count(root *types.Content) Stats {
	var stats Stats
	_ = Walk(root, func(node *types.Content, depth int) error {
		if depth == 0 {
			return nil
		}
		if node.IsFolder() {
			stats.Folders++
		} else {
			stats.Files++
			stats.Bytes += node.Size
		}
		return nil
	})
	return stats
}
