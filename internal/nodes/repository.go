package nodes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Reader exposes the lookups needed to walk a tree.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Node, error)
	GetByPath(ctx context.Context, path string) (*Node, error)
}

// NodeRepository persists widget tree nodes.
type NodeRepository interface {
	Reader
	// CreateRoot stores node as a new tree root, assigning its path.
	CreateRoot(ctx context.Context, node *Node) (*Node, error)
	// AddChild stores node as the last child of parent, assigning its path.
	AddChild(ctx context.Context, parent *Node, node *Node) (*Node, error)
}

// Root returns the topmost ancestor of node, or node itself when it is a
// root.
func Root(ctx context.Context, repo Reader, node *Node) (*Node, error) {
	if node == nil {
		return nil, ErrNodeRequired
	}
	if node.IsRoot() {
		return node, nil
	}
	if repo == nil {
		return nil, fmt.Errorf("nodes: reader not configured")
	}
	root, err := repo.GetByPath(ctx, node.RootPath())
	if err != nil {
		return nil, fmt.Errorf("nodes: load root of %s: %w", node.ID, err)
	}
	return root, nil
}
