package nodes

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryNodeRepository is an in-memory node store for scaffolding and tests.
type MemoryNodeRepository struct {
	mu        sync.RWMutex
	nodes     map[uuid.UUID]*Node
	pathIndex map[string]uuid.UUID
}

// NewMemoryNodeRepository constructs the repository.
func NewMemoryNodeRepository() *MemoryNodeRepository {
	return &MemoryNodeRepository{
		nodes:     make(map[uuid.UUID]*Node),
		pathIndex: make(map[string]uuid.UUID),
	}
}

// GetByID retrieves a node by identifier.
func (m *MemoryNodeRepository) GetByID(_ context.Context, id uuid.UUID) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneNode(node), nil
}

// GetByPath retrieves a node by materialized path.
func (m *MemoryNodeRepository) GetByPath(_ context.Context, path string) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.pathIndex[strings.ToUpper(path)]
	if !ok {
		return nil, &NotFoundError{Key: path}
	}
	return cloneNode(m.nodes[id]), nil
}

// CreateRoot stores node as a new root.
func (m *MemoryNodeRepository) CreateRoot(_ context.Context, node *Node) (*Node, error) {
	if node == nil {
		return nil, ErrNodeRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := nextPath("", m.lastPathLocked("", 1))
	if err != nil {
		return nil, err
	}
	return m.insertLocked(node, path, 1), nil
}

// AddChild stores node as the last child of parent.
func (m *MemoryNodeRepository) AddChild(_ context.Context, parent *Node, node *Node) (*Node, error) {
	if parent == nil {
		return nil, ErrParentRequired
	}
	if node == nil {
		return nil, ErrNodeRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pathIndex[parent.Path]; !ok {
		return nil, &NotFoundError{Key: parent.Path}
	}
	depth := len(parent.Path)/StepLen + 1
	path, err := nextPath(parent.Path, m.lastPathLocked(parent.Path, depth))
	if err != nil {
		return nil, err
	}
	return m.insertLocked(node, path, depth), nil
}

func (m *MemoryNodeRepository) lastPathLocked(prefix string, depth int) string {
	last := ""
	for path := range m.pathIndex {
		if len(path) != depth*StepLen || !strings.HasPrefix(path, prefix) {
			continue
		}
		if path > last {
			last = path
		}
	}
	return last
}

func (m *MemoryNodeRepository) insertLocked(node *Node, path string, depth int) *Node {
	stored := cloneNode(node)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Path = path
	stored.Depth = depth
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	m.nodes[stored.ID] = stored
	m.pathIndex[path] = stored.ID
	return cloneNode(stored)
}
