package render

import (
	"errors"
	"net/http"
)

// Keys the handlers place in the render context.
const (
	KeyForm             = "form"
	KeyPage             = "page"
	KeyRootNodeOverride = "root_node_override"
	KeyCurrentPage      = "_current_page"
	KeyPageURL          = "page_url"
	KeyPreviewURL       = "preview_url"
	// KeyFormFields holds forms.States of the bound form.
	KeyFormFields = "form_fields"
)

var (
	ErrTemplateMissing = errors.New("render: no template for page")
	ErrPageMissing     = errors.New("render: page not found")
)

// Context is the extra data handed to the page pipeline.
type Context map[string]any

// Renderer renders the page identified by slug with extra context merged in.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, slug string, extra Context) error
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(w http.ResponseWriter, r *http.Request, slug string, extra Context) error

func (fn RendererFunc) Render(w http.ResponseWriter, r *http.Request, slug string, extra Context) error {
	return fn(w, r, slug, extra)
}
