package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cms-widgy/internal/adapters/storage"
	"github.com/goliatone/go-cms-widgy/internal/forms"
	widgyhttp "github.com/goliatone/go-cms-widgy/internal/http"
	"github.com/goliatone/go-cms-widgy/internal/links"
	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/logging/console"
	"github.com/goliatone/go-cms-widgy/internal/logging/gologger"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/internal/render"
	"github.com/goliatone/go-cms-widgy/internal/runtimeconfig"
	"github.com/goliatone/go-cms-widgy/internal/seed"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires repositories, the resolver, the renderer and the HTTP API.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB   *bun.DB
	ownsDB  bool
	migrate bool

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	nodeRepo    nodes.NodeRepository
	versionRepo versioning.Repository
	pageRepo    pages.PageRepository
	submissions forms.SubmissionStore

	resolver  pages.NodeResolver
	renderer  render.Renderer
	builder   forms.Builder
	preview   permissions.PreviewPolicy
	redirect  *links.RedirectPolicy
	links     *links.Builder
	principal interfaces.PrincipalResolver

	api *widgyhttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB routes repositories through the provided database. The caller
// keeps ownership and closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRenderer replaces the pongo2 template renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithPreviewPolicy replaces the policy named in configuration.
func WithPreviewPolicy(policy permissions.PreviewPolicy) Option {
	return func(c *Container) {
		c.preview = policy
	}
}

// WithPrincipalResolver attaches the host's authentication to every request.
func WithPrincipalResolver(resolver interfaces.PrincipalResolver) Option {
	return func(c *Container) {
		c.principal = resolver
	}
}

// WithFormBuilder replaces the field set form builder.
func WithFormBuilder(builder forms.Builder) Option {
	return func(c *Container) {
		c.builder = builder
	}
}

// WithSubmissionStore replaces the store used by the default form builder.
func WithSubmissionStore(store forms.SubmissionStore) Option {
	return func(c *Container) {
		c.submissions = store
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.DefaultTTL,
		migrate:  cfg.Storage.AutoMigrate,
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureHandlers(); err != nil {
		c.Close()
		return nil, err
	}

	c.logger.Info("widgy.container.ready",
		"storage", c.storageName(),
		"cache", c.cacheService != nil,
		"preview_policy", string(cfg.Preview.Policy),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level := console.ParseLevel(c.Config.Logging.Level)
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "widgy.container")
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		return nil
	}
	db, err := storage.Open(c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("widgy.container.cache_disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.nodeRepo = nodes.NewBunNodeRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.versionRepo = versioning.NewBunRepository(c.bunDB)
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		if c.submissions == nil {
			c.submissions = forms.NewBunSubmissionStore(c.bunDB)
		}
		return
	}

	c.nodeRepo = nodes.NewMemoryNodeRepository()
	c.versionRepo = versioning.NewMemoryRepository()
	c.pageRepo = pages.NewMemoryPageRepository()
	if c.submissions == nil {
		c.submissions = forms.NewMemorySubmissionStore()
	}
}

func (c *Container) configureHandlers() error {
	c.links = links.NewBuilder(links.Config{
		BaseURL:  c.Config.Links.BaseURL,
		BasePath: c.Config.HTTP.BasePath,
	})
	c.redirect = links.NewRedirectPolicy(c.Config.Forms.AllowedRedirectHosts)

	c.resolver = pages.NewResolver(c.nodeRepo, c.versionRepo, c.pageRepo,
		pages.WithResolverLogger(logging.PagesLogger(c.loggerProvider)))

	if c.renderer == nil {
		renderer, err := render.NewTemplateRenderer(c.Config.Templates.Dir, c.pageRepo,
			render.WithTemplateLogger(logging.RenderLogger(c.loggerProvider)),
			render.WithLinks(c.links),
			render.WithDebug(c.Config.Templates.Debug),
		)
		if err != nil {
			return err
		}
		c.renderer = renderer
	}

	if c.builder == nil {
		c.builder = forms.NewFieldSetBuilder(c.submissions)
	}

	if c.preview == nil {
		policy, err := permissions.NewPreviewPolicy(string(c.Config.Preview.Policy), c.Config.Preview.Permission)
		if err != nil {
			return err
		}
		c.preview = policy
	}

	c.api = widgyhttp.NewAPI(
		widgyhttp.WithBasePath(c.Config.HTTP.BasePath),
		widgyhttp.WithNodeReader(c.nodeRepo),
		widgyhttp.WithResolver(c.resolver),
		widgyhttp.WithRenderer(c.renderer),
		widgyhttp.WithFormBuilder(c.builder),
		widgyhttp.WithPreviewPolicy(c.preview),
		widgyhttp.WithRedirectPolicy(c.redirect),
		widgyhttp.WithLinks(c.links),
		widgyhttp.WithLoggerProvider(c.loggerProvider),
	)
	return nil
}

// Handler returns a mux serving the widgy routes behind the principal
// middleware.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.api.Register(mux); err != nil {
		return nil, err
	}
	return permissions.PrincipalMiddleware(c.principal)(mux), nil
}

// Migrate creates the widgy tables when running on bun. Memory storage is a
// no-op.
func (c *Container) Migrate(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	if err := storage.EnsureSchema(ctx, c.bunDB); err != nil {
		return err
	}
	c.logger.Info("widgy.container.migrated")
	return nil
}

// AutoMigrate reports whether configuration asks for Migrate on start up.
func (c *Container) AutoMigrate() bool {
	return c.migrate
}

// Seed loads the demo pages. Existing demo data is left alone.
func (c *Container) Seed(ctx context.Context) (*seed.Demo, error) {
	demo, err := seed.Load(ctx, seed.Stores{
		Nodes:    c.nodeRepo,
		Versions: c.versionRepo,
		Pages:    c.pageRepo,
	})
	if errors.Is(err, seed.ErrAlreadySeeded) {
		c.logger.Info("widgy.container.seed_skipped")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("seed demo data: %w", err)
	}
	c.logger.Info("widgy.container.seeded",
		"preview_url", c.PreviewURL(demo.PublishedRoot),
		"orphan_preview_url", c.PreviewURL(demo.OrphanRoot),
	)
	return demo, nil
}

// PreviewURL builds the preview link for node, or "" when it cannot.
func (c *Container) PreviewURL(node *nodes.Node) string {
	if node == nil {
		return ""
	}
	url, err := c.links.Preview(node.ID)
	if err != nil {
		return ""
	}
	return url
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

func (c *Container) storageName() string {
	if c.bunDB != nil {
		return "bun"
	}
	return "memory"
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) NodeRepository() nodes.NodeRepository      { return c.nodeRepo }
func (c *Container) VersionRepository() versioning.Repository  { return c.versionRepo }
func (c *Container) PageRepository() pages.PageRepository      { return c.pageRepo }
func (c *Container) SubmissionStore() forms.SubmissionStore    { return c.submissions }
func (c *Container) Resolver() pages.NodeResolver              { return c.resolver }
func (c *Container) Renderer() render.Renderer                 { return c.renderer }
func (c *Container) Links() *links.Builder                     { return c.links }
func (c *Container) API() *widgyhttp.API                       { return c.api }
