package permalink

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	DefaultGroup = "frontend"
	DefaultRoute = "post"
	DefaultPath  = "/posts/:slug"
	slugParam    = "slug"
)

// Config describes the route used to publish posts.
type Config struct {
	BaseURL string
	Path    string
	Group   string
	Route   string
}

// Resolver builds post URLs through a go-urlkit route manager.
type Resolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string
}

// NewResolver registers the post route and returns a resolver for it.
func NewResolver(cfg Config) *Resolver {
	group := strings.TrimSpace(cfg.Group)
	if group == "" {
		group = DefaultGroup
	}
	route := strings.TrimSpace(cfg.Route)
	if route == "" {
		route = DefaultRoute
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    group,
				BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
				Paths: map[string]string{
					route: path,
				},
			},
		},
	})

	return &Resolver{
		manager: manager,
		group:   group,
		route:   route,
	}
}

// Resolve returns the permalink for slug.
func (r *Resolver) Resolve(slug string) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("permalink: slug is required")
	}

	builder, err := r.builder()
	if err != nil {
		return "", err
	}
	builder.WithParam(slugParam, slug)

	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("permalink: build %s: %w", slug, err)
	}
	return url, nil
}

// urlkit panics on unknown groups and routes.
func (r *Resolver) builder() (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalink: route %s.%s not available: %v", r.group, r.route, rec)
		}
	}()
	group := r.manager.Group(r.group)
	if group == nil {
		return nil, fmt.Errorf("permalink: route group %q not found", r.group)
	}
	return group.Builder(r.route), nil
}
