package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/links"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/internal/render"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// invalidIDError reports a route parameter that is not a UUID.
type invalidIDError struct {
	Param string
	Value string
}

func (e *invalidIDError) Error() string {
	return fmt.Sprintf("%s %q is not a valid id", e.Param, e.Value)
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return strings.TrimSuffix(baseClean, "/") + "/" + strings.Trim(trimmedSuffix, "/")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var nodeNotFound *nodes.NotFoundError
	if errors.As(err, &nodeNotFound) || errors.Is(err, nodes.ErrNodeNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, pages.ErrPageNotFound) ||
		errors.Is(err, render.ErrPageMissing) ||
		errors.Is(err, forms.ErrNotAForm) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, permissions.ErrPermissionDenied) || errors.Is(err, permissions.ErrAnonymous) {
		return http.StatusForbidden, errorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		}
	}

	if errors.Is(err, links.ErrRedirectMissing) {
		return http.StatusBadRequest, errorResponse{
			Error:   "missing_parameter",
			Message: "from is required",
		}
	}

	if errors.Is(err, links.ErrRedirectNotAllowed) {
		return http.StatusBadRequest, errorResponse{
			Error:   "redirect_not_allowed",
			Message: err.Error(),
		}
	}

	var invalidID *invalidIDError
	if errors.As(err, &invalidID) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: invalidID.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(r *http.Request, param string) (uuid.UUID, error) {
	value := strings.TrimSpace(r.PathValue(param))
	parsed, err := uuid.Parse(value)
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, &invalidIDError{Param: param, Value: value}
	}
	return parsed, nil
}
