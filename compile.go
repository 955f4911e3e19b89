package navi

import (
	"errors"
	"strings"
)

// RouteState is a compiled route. States are created by Compile and are
// read-only afterwards.
type RouteState struct {
	// Path is the absolute, normalized path of the route.
	Path      string
	PathStack []PathToken
	// Config is the RouteConfig this state was compiled from.
	Config *RouteConfig
	// RedirectTo is the resolved redirect target, empty when the route
	// does not redirect.
	RedirectTo       string
	IsRedirectToRoot bool
	Guards           []Guard
	Parent           *RouteState
	Children         []*RouteState
	Component        any

	// final destination of a relative redirect chain, resolved at
	// compile time.
	redirectTarget *RouteState
}

// routeTable is the output of the compiler: the state tree plus an index
// of every state by absolute path.
type routeTable struct {
	roots []*RouteState
	index *pathtrie
}

// Compile turns a route config tree into a tree of route states. Guard
// factories are invoked once per route, in declaration order, and every
// redirect is checked; any failure is returned as a *ConfigError and no
// states are returned.
func Compile(configs []*RouteConfig) ([]*RouteState, error) {
	table, err := compileTable(configs)
	if err != nil {
		return nil, err
	}
	return table.roots, nil
}

func compileTable(configs []*RouteConfig) (*routeTable, error) {
	table := &routeTable{index: newPathtrie()}
	roots, err := table.compile(configs, nil)
	if err != nil {
		return nil, err
	}
	table.roots = roots

	var states []*RouteState
	walkStates(roots, func(state *RouteState) bool {
		states = append(states, state)
		return true
	})
	if err := table.index.build(states); err != nil {
		return nil, err
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (t *routeTable) compile(configs []*RouteConfig, parent *RouteState) ([]*RouteState, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	var parentPath string
	if parent != nil {
		parentPath = parent.Path
	}

	states := make([]*RouteState, 0, len(configs))
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		path := JoinPath(parentPath, cfg.Path)
		state := &RouteState{
			Path:      path,
			PathStack: SplitPath(path),
			Config:    cfg,
			Parent:    parent,
			Component: cfg.Component,
		}
		if redirect := strings.TrimSpace(cfg.RedirectTo); redirect != "" {
			if strings.HasPrefix(redirect, "/") {
				state.RedirectTo = redirect
				state.IsRedirectToRoot = true
			} else {
				state.RedirectTo = JoinPath(parentPath, redirect)
			}
		}

		if l := len(cfg.Guards); l > 0 {
			state.Guards = make([]Guard, 0, l)
			for i, factory := range cfg.Guards {
				if factory == nil {
					return nil, configErrorf(path, ErrGuardFactory, "guard #%d is nil", i)
				}
				guard, err := factory()
				if err != nil {
					return nil, &ConfigError{Path: path, Reason: err.Error(), Err: ErrGuardFactory}
				}
				if guard == nil {
					return nil, configErrorf(path, ErrGuardFactory, "guard #%d is nil", i)
				}
				state.Guards = append(state.Guards, guard)
			}
		}

		children, err := t.compile(cfg.Children, state)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			state.Children = children
		}
		states = append(states, state)
	}
	return states, nil
}

// validate resolves every redirect once so that broken configurations
// fail at compile time rather than during navigation. Relative redirects
// are resolved first since absolute ones may pass through them.
func (t *routeTable) validate() error {
	var err error
	walkStates(t.roots, func(state *RouteState) bool {
		if state.RedirectTo != "" && !state.IsRedirectToRoot {
			state.redirectTarget, err = followRedirects(state, t.index.lookup)
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	walkStates(t.roots, func(state *RouteState) bool {
		if !state.IsRedirectToRoot {
			return true
		}
		m := newMatcher(t.roots)
		m.seen = map[*RouteState]struct{}{state: {}}
		if _, err = m.match(state.RedirectTo, t.roots); err != nil && errors.Is(err, ErrRedirectLoop) {
			err = configErrorf(state.Path, ErrRedirectLoop, "redirecting to %q", state.RedirectTo)
		}
		return err == nil
	})
	return err
}

// walkStates visits states depth-first in declaration order, parents
// before children. It stops as soon as fn returns false.
func walkStates(states []*RouteState, fn func(*RouteState) bool) bool {
	for _, state := range states {
		if !fn(state) {
			return false
		}
		if !walkStates(state.Children, fn) {
			return false
		}
	}
	return true
}
