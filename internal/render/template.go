package render

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/links"
	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
)

const (
	pagesTemplateDir    = "pages"
	fallbackTemplate    = "page.html"
	templateContentType = "text/html; charset=utf-8"
)

// TemplateOption configures a TemplateRenderer.
type TemplateOption func(*TemplateRenderer)

// WithTemplateLogger overrides the renderer logger.
func WithTemplateLogger(logger interfaces.Logger) TemplateOption {
	return func(r *TemplateRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLinks enables page_url and preview_url in the template context.
func WithLinks(builder *links.Builder) TemplateOption {
	return func(r *TemplateRenderer) {
		r.links = builder
	}
}

// WithDebug disables template caching so edits are picked up per request.
func WithDebug(debug bool) TemplateOption {
	return func(r *TemplateRenderer) {
		r.debug = debug
	}
}

// TemplateRenderer renders pages with pongo2 templates named after the page
// content model, falling back to pages/page.html.
type TemplateRenderer struct {
	dir    string
	set    *pongo2.TemplateSet
	pages  pages.PageReader
	links  *links.Builder
	logger interfaces.Logger
	debug  bool
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer loads templates from dir.
func NewTemplateRenderer(dir string, pageReader pages.PageReader, opts ...TemplateOption) (*TemplateRenderer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("render: resolve template dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("render: template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("render: template dir %s is not a directory", abs)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(abs)
	if err != nil {
		return nil, fmt.Errorf("render: template loader: %w", err)
	}

	r := &TemplateRenderer{
		dir:    abs,
		pages:  pageReader,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	ensureFilters()
	r.set = pongo2.NewSet("widgy", loader)
	r.set.Debug = r.debug
	return r, nil
}

func (r *TemplateRenderer) Render(w http.ResponseWriter, req *http.Request, slug string, extra Context) error {
	page, err := r.page(req, slug, extra)
	if err != nil {
		return err
	}

	name, err := r.templateFor(page)
	if err != nil {
		return err
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return fmt.Errorf("render: load %s: %w", name, err)
	}

	data := pongo2.Context{}
	maps.Copy(data, extra)
	data[KeyPage] = page
	if form, ok := extra[KeyForm].(forms.Form); ok && form != nil {
		data[KeyFormFields] = forms.States(form)
	}
	r.addLinks(data, page)

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(data, &buf); err != nil {
		return fmt.Errorf("render: execute %s: %w", name, err)
	}

	r.logger.WithContext(req.Context()).Debug("render.page",
		"template", name,
		"slug", page.Slug,
		"placeholder", page.Placeholder,
	)

	w.Header().Set("Content-Type", templateContentType)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(buf.Bytes())
	return err
}

func (r *TemplateRenderer) page(req *http.Request, slug string, extra Context) (*pages.Page, error) {
	if page, ok := extra[KeyPage].(*pages.Page); ok && page != nil {
		return page, nil
	}
	if r.pages == nil || strings.TrimSpace(slug) == "" {
		return nil, ErrPageMissing
	}
	page, err := r.pages.GetBySlug(req.Context(), slug)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPageMissing, slug)
		}
		return nil, err
	}
	return page, nil
}

func (r *TemplateRenderer) templateFor(page *pages.Page) (string, error) {
	candidates := []string{fallbackTemplate}
	if model := strings.ToLower(strings.TrimSpace(page.ContentModel)); model != "" && !strings.ContainsAny(model, `/\.`) {
		candidates = append([]string{model + ".html"}, candidates...)
	}
	for _, candidate := range candidates {
		name := path.Join(pagesTemplateDir, candidate)
		if info, err := os.Stat(filepath.Join(r.dir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: content model %q", ErrTemplateMissing, page.ContentModel)
}

func (r *TemplateRenderer) addLinks(data pongo2.Context, page *pages.Page) {
	if r.links == nil {
		return
	}
	if page.Slug != "" {
		if url, err := r.links.Page(page.Slug); err == nil {
			data[KeyPageURL] = url
		}
	}
	if node, ok := data[KeyRootNodeOverride].(*nodes.Node); ok && node != nil {
		if url, err := r.links.Preview(node.ID); err == nil {
			data[KeyPreviewURL] = url
		}
	}
}
