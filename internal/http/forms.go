package http

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/render"
)

const redirectParam = "from"

// handleFormGet sends visitors who land on the submit URL back to the page
// they came from.
func (api *API) handleFormGet(w http.ResponseWriter, r *http.Request) {
	target, err := api.redirect.Check(r.URL.Query().Get(redirectParam))
	if err != nil {
		api.formsLogger.WithContext(r.Context()).Debug("forms.redirect_rejected", "from", r.URL.Query().Get(redirectParam), "error", err)
		writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (api *API) handleFormPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := api.formsLogger.WithContext(ctx)

	formNodeID, err := parseUUID(r, "form_node_pk")
	if err != nil {
		writeError(w, err)
		return
	}
	formNode, err := api.nodes.GetByID(ctx, formNodeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	form, err := api.builder.Build(ctx, formNode)
	if err != nil {
		writeError(w, err)
		return
	}
	form.Bind(r.PostForm)

	if err := form.Validate(); err != nil {
		var fieldErrs validation.Errors
		if !errors.As(err, &fieldErrs) {
			writeError(w, err)
			return
		}
		logger.Debug("forms.invalid", "form_node_id", formNode.ID.String(), "fields", len(fieldErrs))
		api.formInvalid(w, r, formNode, form)
		return
	}

	target, err := api.successTarget(r, formNode)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := form.Submit(ctx); err != nil {
		logger.Error("forms.submit_failed", "form_node_id", formNode.ID.String(), "error", err)
		writeError(w, err)
		return
	}
	logger.Info("forms.submitted", "form_node_id", formNode.ID.String())
	http.Redirect(w, r, target, http.StatusFound)
}

// formInvalid re-displays the page the form lives on with the bound form in
// the render context.
func (api *API) formInvalid(w http.ResponseWriter, r *http.Request, formNode *nodes.Node, form forms.Form) {
	ctx := r.Context()

	var root *nodes.Node
	if raw := strings.TrimSpace(r.PathValue("root_node_pk")); raw != "" {
		rootID, err := parseUUID(r, "root_node_pk")
		if err != nil {
			writeError(w, err)
			return
		}
		if root, err = api.nodes.GetByID(ctx, rootID); err != nil {
			writeError(w, err)
			return
		}
	} else {
		var err error
		if root, err = nodes.Root(ctx, api.nodes, formNode); err != nil {
			writeError(w, err)
			return
		}
	}

	logger := logging.WithNodeContext(api.formsLogger, formNode.ID, root.ID).WithContext(ctx)

	page, err := api.resolver.Resolve(ctx, root)
	if err != nil {
		logger.Error("forms.resolve_failed", "error", err)
		writeError(w, err)
		return
	}

	extra := render.Context{
		render.KeyForm:             form,
		render.KeyPage:             page,
		render.KeyRootNodeOverride: root,
	}
	if err := api.renderer.Render(w, r, page.Slug, extra); err != nil {
		logger.Error("forms.render_failed", "slug", page.Slug, "error", err)
		writeError(w, err)
	}
}

// successTarget picks where a valid submission redirects: an explicit from
// value, else the public URL of the owning page, else the site root.
func (api *API) successTarget(r *http.Request, formNode *nodes.Node) (string, error) {
	from := r.PostForm.Get(redirectParam)
	if strings.TrimSpace(from) == "" {
		from = r.URL.Query().Get(redirectParam)
	}
	if strings.TrimSpace(from) != "" {
		return api.redirect.Check(from)
	}

	if api.links != nil {
		if page, err := api.resolver.Resolve(r.Context(), formNode); err == nil && !page.Placeholder {
			if url, err := api.links.Page(page.Slug); err == nil {
				if target, err := api.redirect.Check(url); err == nil {
					return target, nil
				}
			}
		}
	}
	return "/", nil
}
