package nodes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewNodeRepository builds the generic go-repository-bun repository for nodes.
func NewNodeRepository(db *bun.DB) repository.Repository[*Node] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Node]{
		NewRecord: func() *Node { return &Node{} },
		GetID: func(n *Node) uuid.UUID {
			return n.ID
		},
		SetID: func(n *Node, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(n *Node) string {
			return n.Path
		},
	})
}

// BunNodeRepository persists nodes with bun.
type BunNodeRepository struct {
	db   *bun.DB
	repo repository.Repository[*Node]
}

// NewBunNodeRepository constructs an uncached repository.
func NewBunNodeRepository(db *bun.DB) *BunNodeRepository {
	return NewBunNodeRepositoryWithCache(db, nil, nil)
}

// NewBunNodeRepositoryWithCache constructs a repository with optional read caching.
func NewBunNodeRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunNodeRepository {
	base := NewNodeRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunNodeRepository{db: db, repo: base}
}

func (r *BunNodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Node, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunNodeRepository) GetByPath(ctx context.Context, path string) (*Node, error) {
	normalized := strings.ToUpper(strings.TrimSpace(path))
	if normalized == "" {
		return nil, &NotFoundError{Key: path}
	}
	// path is the repository identifier, so cached lookups are keyed by value
	record, err := r.repo.GetByIdentifier(ctx, normalized)
	if err != nil {
		return nil, mapRepositoryError(err, normalized)
	}
	return record, nil
}

func (r *BunNodeRepository) CreateRoot(ctx context.Context, node *Node) (*Node, error) {
	if node == nil {
		return nil, ErrNodeRequired
	}
	last, err := r.lastPath(ctx, "", 1)
	if err != nil {
		return nil, err
	}
	path, err := nextPath("", last)
	if err != nil {
		return nil, err
	}
	return r.insert(ctx, node, path, 1)
}

func (r *BunNodeRepository) AddChild(ctx context.Context, parent *Node, node *Node) (*Node, error) {
	if parent == nil {
		return nil, ErrParentRequired
	}
	if node == nil {
		return nil, ErrNodeRequired
	}
	depth := len(parent.Path)/StepLen + 1
	last, err := r.lastPath(ctx, parent.Path, depth)
	if err != nil {
		return nil, err
	}
	path, err := nextPath(parent.Path, last)
	if err != nil {
		return nil, err
	}
	return r.insert(ctx, node, path, depth)
}

func (r *BunNodeRepository) lastPath(ctx context.Context, prefix string, depth int) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("node repository: database not configured")
	}
	var last sql.NullString
	err := r.db.NewSelect().
		Model((*Node)(nil)).
		ColumnExpr("MAX(?TableAlias.path)").
		Where("?TableAlias.depth = ?", depth).
		Where("?TableAlias.path LIKE ?", prefix+"%").
		Scan(ctx, &last)
	if err != nil {
		return "", fmt.Errorf("node repository: last path: %w", err)
	}
	return last.String, nil
}

func (r *BunNodeRepository) insert(ctx context.Context, node *Node, path string, depth int) (*Node, error) {
	record := cloneNode(node)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Path = path
	record.Depth = depth
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("node repository: create %s: %w", path, err)
	}
	return created, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("node repository error: %w", err)
}
