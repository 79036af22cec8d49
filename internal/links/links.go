package links

import (
	"errors"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
)

const (
	GroupWidgy    = "widgy"
	GroupFrontend = "frontend"

	RoutePreview  = "preview"
	RouteForm     = "form"
	RouteFormRoot = "form_root"
	RoutePage     = "page"
)

var ErrSlugRequired = errors.New("links: page slug is required")

// Config describes where the widgy handlers and the public site live.
type Config struct {
	BaseURL  string
	BasePath string
}

// Builder produces handler and page URLs through a go-urlkit route manager.
type Builder struct {
	manager *urlkit.RouteManager
}

// NewBuilder registers the widgy and frontend route groups.
func NewBuilder(cfg Config) *Builder {
	return &Builder{manager: urlkit.NewRouteManager(RouteConfig(cfg))}
}

// RouteConfig returns the urlkit configuration for cfg so hosts can merge it
// into a larger route manager.
func RouteConfig(cfg Config) *urlkit.Config {
	base := strings.TrimRight(strings.TrimSpace(cfg.BasePath), "/")
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    GroupWidgy,
				BaseURL: baseURL,
				Paths: map[string]string{
					RoutePreview:  base + "/preview/:node_pk/",
					RouteForm:     base + "/form/:form_node_pk/",
					RouteFormRoot: base + "/form/:form_node_pk/:root_node_pk/",
				},
			},
			{
				Name:    GroupFrontend,
				BaseURL: baseURL,
				Paths: map[string]string{
					RoutePage: "/:slug/",
				},
			},
		},
	}
}

// Preview returns the preview URL of a node.
func (b *Builder) Preview(nodeID uuid.UUID) (string, error) {
	return b.build(GroupWidgy, RoutePreview, map[string]any{"node_pk": nodeID.String()}, nil)
}

// Form returns the submit URL of a form node. from is added as the redirect
// target when set.
func (b *Builder) Form(formNodeID uuid.UUID, from string) (string, error) {
	return b.build(GroupWidgy, RouteForm, map[string]any{"form_node_pk": formNodeID.String()}, fromQuery(from))
}

// FormWithRoot returns the submit URL of a form node pinned to a tree root.
func (b *Builder) FormWithRoot(formNodeID, rootNodeID uuid.UUID, from string) (string, error) {
	params := map[string]any{
		"form_node_pk": formNodeID.String(),
		"root_node_pk": rootNodeID.String(),
	}
	return b.build(GroupWidgy, RouteFormRoot, params, fromQuery(from))
}

// Page returns the public URL of a page slug.
func (b *Builder) Page(slug string) (string, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return "", ErrSlugRequired
	}
	return b.build(GroupFrontend, RoutePage, map[string]any{"slug": slug}, nil)
}

func (b *Builder) build(groupName, route string, params map[string]any, query map[string]string) (url string, err error) {
	if b == nil || b.manager == nil {
		return "", fmt.Errorf("links: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("links: route %s.%s: %v", groupName, route, rec)
		}
	}()
	builder := b.manager.Group(groupName).Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}

func fromQuery(from string) map[string]string {
	if strings.TrimSpace(from) == "" {
		return nil
	}
	return map[string]string{"from": from}
}
