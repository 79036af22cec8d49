package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/links"
	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/internal/render"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
)

const defaultBasePath = "/widgy"

// API registers the preview and form handlers.
type API struct {
	basePath string
	nodes    nodes.Reader
	resolver pages.NodeResolver
	renderer render.Renderer
	builder  forms.Builder
	preview  permissions.PreviewPolicy
	redirect *links.RedirectPolicy
	links    *links.Builder

	formsLogger   interfaces.Logger
	previewLogger interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance. The preview policy defaults to staff
// only and redirects default to local paths.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:      defaultBasePath,
		preview:       permissions.StaffPolicy{},
		redirect:      links.NewRedirectPolicy(nil),
		formsLogger:   logging.NoOp(),
		previewLogger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the mount path (defaults to "/widgy").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithNodeReader wires node lookups.
func WithNodeReader(reader nodes.Reader) Option {
	return func(api *API) {
		api.nodes = reader
	}
}

// WithResolver wires the node-to-page resolver.
func WithResolver(resolver pages.NodeResolver) Option {
	return func(api *API) {
		api.resolver = resolver
	}
}

// WithRenderer wires the page renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(api *API) {
		api.renderer = renderer
	}
}

// WithFormBuilder wires the form builder.
func WithFormBuilder(builder forms.Builder) Option {
	return func(api *API) {
		api.builder = builder
	}
}

// WithPreviewPolicy sets the authorization policy of the preview handler.
func WithPreviewPolicy(policy permissions.PreviewPolicy) Option {
	return func(api *API) {
		if policy != nil {
			api.preview = policy
		}
	}
}

// WithRedirectPolicy sets the policy applied to form redirect targets.
func WithRedirectPolicy(policy *links.RedirectPolicy) Option {
	return func(api *API) {
		if policy != nil {
			api.redirect = policy
		}
	}
}

// WithLinks wires the link builder used for post-submit redirects.
func WithLinks(builder *links.Builder) Option {
	return func(api *API) {
		api.links = builder
	}
}

// WithLoggerProvider derives the handler loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(api *API) {
		if provider == nil {
			return
		}
		api.formsLogger = logging.FormsLogger(provider)
		api.previewLogger = logging.PreviewLogger(provider)
	}
}

// Register attaches the handlers to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}
	switch {
	case api.nodes == nil:
		return fmt.Errorf("http: node reader is required")
	case api.resolver == nil:
		return fmt.Errorf("http: resolver is required")
	case api.renderer == nil:
		return fmt.Errorf("http: renderer is required")
	}

	base := joinPath(api.basePath, "")
	if base == "/" {
		base = ""
	}

	mux.HandleFunc("GET "+base+"/preview/{node_pk}/{$}", api.handlePreview)

	if api.builder != nil {
		mux.HandleFunc("GET "+base+"/form/{form_node_pk}/{$}", api.handleFormGet)
		mux.HandleFunc("POST "+base+"/form/{form_node_pk}/{$}", api.handleFormPost)
		mux.HandleFunc("GET "+base+"/form/{form_node_pk}/{root_node_pk}/{$}", api.handleFormGet)
		mux.HandleFunc("POST "+base+"/form/{form_node_pk}/{root_node_pk}/{$}", api.handleFormPost)
	}

	return nil
}
