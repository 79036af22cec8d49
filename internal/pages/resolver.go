package pages

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const resolveFailedCode = "PAGE_RESOLVE_FAILED"

// NodeResolver maps a tree node to the page that owns its tree.
type NodeResolver interface {
	Resolve(ctx context.Context, node *nodes.Node) (*Page, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger overrides the logger used for fallback diagnostics.
func WithResolverLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver finds the page referencing a node's root through a commit or a
// working copy, falling back to a placeholder page.
type Resolver struct {
	nodes    nodes.Reader
	versions versioning.RootLookup
	pages    PageReader
	logger   interfaces.Logger
}

var _ NodeResolver = (*Resolver)(nil)

// NewResolver wires the resolver collaborators.
func NewResolver(nodeReader nodes.Reader, versions versioning.RootLookup, pageReader PageReader, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		nodes:    nodeReader,
		versions: versions,
		pages:    pageReader,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the owning page of node's tree. Commit references are
// consulted before working copies; duplicates collapse to the first match.
// When nothing references the root a placeholder page is returned and
// nothing is written.
func (r *Resolver) Resolve(ctx context.Context, node *nodes.Node) (*Page, error) {
	if node == nil {
		return nil, nodes.ErrNodeRequired
	}
	root, err := nodes.Root(ctx, r.nodes, node)
	if err != nil {
		if errors.Is(err, nodes.ErrNodeNotFound) {
			r.logger.WithContext(ctx).Debug("pages.resolve.root_missing",
				"node_id", node.ID.String(),
				"path", node.Path,
			)
			return NewPlaceholderPage(), nil
		}
		return nil, wrapResolveError(err)
	}

	logger := logging.WithNodeContext(r.logger, node.ID, root.ID).WithContext(ctx)

	lookups := []func(context.Context, uuid.UUID) ([]uuid.UUID, error){
		r.versions.TrackersByCommitRoot,
		r.versions.TrackersByWorkingCopy,
	}

	var candidates []*Page
	for _, lookup := range lookups {
		trackerIDs, err := lookup(ctx, root.ID)
		if err != nil {
			return nil, wrapResolveError(err)
		}
		pages, err := r.pagesForTrackers(ctx, trackerIDs)
		if err != nil {
			return nil, wrapResolveError(err)
		}
		candidates = append(candidates, pages...)
	}

	matches := dedupePages(candidates)
	if len(matches) == 0 {
		logger.Debug("pages.resolve.placeholder")
		return NewPlaceholderPage(), nil
	}
	if len(matches) > 1 {
		logger.Debug("pages.resolve.multiple_matches", "count", len(matches), "page_id", matches[0].ID.String())
	}
	return matches[0], nil
}

// pagesForTrackers lists pages and orders them by tracker position.
func (r *Resolver) pagesForTrackers(ctx context.Context, trackerIDs []uuid.UUID) ([]*Page, error) {
	if len(trackerIDs) == 0 {
		return nil, nil
	}
	records, err := r.pages.ListByTrackers(ctx, trackerIDs)
	if err != nil {
		return nil, err
	}
	ordered := make([]*Page, 0, len(records))
	for _, trackerID := range trackerIDs {
		for _, record := range records {
			if record.TrackerID != nil && *record.TrackerID == trackerID {
				ordered = append(ordered, record)
			}
		}
	}
	return ordered, nil
}

func dedupePages(candidates []*Page) []*Page {
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	out := make([]*Page, 0, len(candidates))
	for _, page := range candidates {
		if page == nil {
			continue
		}
		if _, ok := seen[page.ID]; ok {
			continue
		}
		seen[page.ID] = struct{}{}
		out = append(out, page)
	}
	return out
}

func wrapResolveError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "page resolution failed").
		WithTextCode(resolveFailedCode)
}
