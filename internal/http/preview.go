package http

import (
	"net/http"

	"github.com/goliatone/go-cms-widgy/internal/logging"
	"github.com/goliatone/go-cms-widgy/internal/render"
	"github.com/google/uuid"
)

// handlePreview renders the page owning a node's tree with that node as the
// rendered root. Authorization runs before any lookup.
func (api *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := api.previewLogger.WithContext(ctx)

	if err := api.preview.Authorize(r); err != nil {
		logger.Info("preview.denied", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
		return
	}

	nodeID, err := parseUUID(r, "node_pk")
	if err != nil {
		writeError(w, err)
		return
	}
	node, err := api.nodes.GetByID(ctx, nodeID)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := api.resolver.Resolve(ctx, node)
	if err != nil {
		logging.WithNodeContext(logger, node.ID, uuid.Nil).Error("preview.resolve_failed", "error", err)
		writeError(w, err)
		return
	}

	extra := render.Context{
		render.KeyPage:             page,
		render.KeyRootNodeOverride: node,
		render.KeyCurrentPage:      page,
	}
	if err := api.renderer.Render(w, r, page.Slug, extra); err != nil {
		logger.Error("preview.render_failed", "node_id", node.ID.String(), "slug", page.Slug, "error", err)
		writeError(w, err)
	}
}
