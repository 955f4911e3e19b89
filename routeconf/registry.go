package routeconf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lestrrat-go/navi"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownGuard     = errors.New("unknown guard")
)

type RegistryOption func(*Registry)

// WithLenient makes the registry resolve unknown component names to the
// names themselves and unknown guards to navi.Allow. Useful for tools
// that only inspect a route tree.
func WithLenient() RegistryOption {
	return func(r *Registry) {
		r.lenient = true
	}
}

// Registry maps the names used in a document to components and guard
// factories.
type Registry struct {
	lenient bool

	mu         sync.RWMutex
	components map[string]any
	guards     map[string]navi.GuardFactory
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		components: make(map[string]any),
		guards:     make(map[string]navi.GuardFactory),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Component(name string, c any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = c
	return r
}

func (r *Registry) Guard(name string, f navi.GuardFactory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = f
	return r
}

func (r *Registry) component(name string) (any, error) {
	r.mu.RLock()
	c, ok := r.components[name]
	r.mu.RUnlock()
	switch {
	case ok:
		return c, nil
	case r.lenient:
		return name, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownComponent, name)
}

func (r *Registry) guard(name string) (navi.GuardFactory, error) {
	r.mu.RLock()
	f, ok := r.guards[name]
	r.mu.RUnlock()
	switch {
	case ok:
		return f, nil
	case r.lenient:
		return navi.NewGuard(navi.Allow), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGuard, name)
}

// Build resolves every name in doc and returns the route configuration
// ready for navi.Router.Initialize.
func (r *Registry) Build(doc *Document) ([]*navi.RouteConfig, error) {
	return r.build(doc.Routes, "")
}

func (r *Registry) build(routes []Route, parent string) ([]*navi.RouteConfig, error) {
	if len(routes) == 0 {
		return nil, nil
	}

	configs := make([]*navi.RouteConfig, 0, len(routes))
	for _, route := range routes {
		path := navi.JoinPath(parent, route.Path)
		cfg := &navi.RouteConfig{
			Path:       route.Path,
			RedirectTo: route.RedirectTo,
		}
		if route.Component != "" {
			c, err := r.component(route.Component)
			if err != nil {
				return nil, fmt.Errorf("routeconf: route %q: %w", path, err)
			}
			cfg.Component = c
		}
		for _, name := range route.Guards {
			f, err := r.guard(name)
			if err != nil {
				return nil, fmt.Errorf("routeconf: route %q: %w", path, err)
			}
			cfg.Guards = append(cfg.Guards, f)
		}

		children, err := r.build(route.Children, path)
		if err != nil {
			return nil, err
		}
		cfg.Children = children
		configs = append(configs, cfg)
	}
	return configs, nil
}
