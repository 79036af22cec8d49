// Package http exposes the widgy page handlers.
//
// Routes mount under the configured base path (default /widgy):
//   - Preview: GET /preview/{node_pk}/
//   - Form submission: GET|POST /form/{form_node_pk}/
//   - Form submission pinned to a tree root: GET|POST /form/{form_node_pk}/{root_node_pk}/
//
// Host applications register the handlers on their own mux and attach the
// requester principal with permissions.PrincipalMiddleware.
package http
