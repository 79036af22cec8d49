package widgy

import (
	"context"
	"net/http"

	"github.com/goliatone/go-cms-widgy/internal/di"
	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/internal/render"
	"github.com/goliatone/go-cms-widgy/internal/seed"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
)

type (
	// Node is a vertex of a widget tree.
	Node = nodes.Node
	// Page is a content page owning a versioned widget tree.
	Page = pages.Page
	// Tracker follows the working copy and commits of one tree.
	Tracker = versioning.Tracker
	// Commit is a published snapshot of a tree.
	Commit = versioning.Commit
	// Submission is a recorded form post.
	Submission = forms.Submission

	NodeResolver    = pages.NodeResolver
	Renderer        = render.Renderer
	RenderContext   = render.Context
	FormBuilder     = forms.Builder
	PreviewPolicy   = permissions.PreviewPolicy
	StaticPrincipal = permissions.StaticPrincipal
	Demo            = seed.Demo
	Option          = di.Option
)

const (
	PlaceholderTitle        = pages.PlaceholderTitle
	PlaceholderContentModel = pages.PlaceholderContentModel
	PreviewPermission       = permissions.PreviewPermission
)

var (
	WithBunDB             = di.WithBunDB
	WithCache             = di.WithCache
	WithLoggerProvider    = di.WithLoggerProvider
	WithRenderer          = di.WithRenderer
	WithPreviewPolicy     = di.WithPreviewPolicy
	WithPrincipalResolver = di.WithPrincipalResolver
	WithFormBuilder       = di.WithFormBuilder
	WithSubmissionStore   = di.WithSubmissionStore

	ErrAlreadySeeded = seed.ErrAlreadySeeded
)

// Module is the entry point host applications embed.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the widgy handlers.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Handler returns the preview and form routes mounted under the configured
// base path.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Resolver returns the node to page resolver.
func (m *Module) Resolver() NodeResolver {
	return m.container.Resolver()
}

// ResolvePage returns the page owning node's tree, or the unsaved
// placeholder page when no page references it.
func (m *Module) ResolvePage(ctx context.Context, node *Node) (*Page, error) {
	return m.container.Resolver().Resolve(ctx, node)
}

// Migrate creates the widgy tables on bun storage.
func (m *Module) Migrate(ctx context.Context) error {
	return m.container.Migrate(ctx)
}

// Seed loads the demo pages.
func (m *Module) Seed(ctx context.Context) (*Demo, error) {
	return m.container.Seed(ctx)
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}
