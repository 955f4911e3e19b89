package navi

import (
	"fmt"
	"strings"
)

// Param is a captured ':name' segment.
type Param struct {
	Param string
	Value string
}

// Match is the result of matching a location against a route tree.
type Match struct {
	State  *RouteState
	Params []Param
	// Redirected is set when the matched route redirected to State.
	Redirected bool
	// RedirectURL is the location the caller should display instead of
	// the one it asked for.
	RedirectURL string
}

// MatchPath finds the route for path in routes. Children are tried before
// their parent and siblings in declaration order, so the deepest route
// declared first wins. Redirects are followed.
func MatchPath(path string, routes []*RouteState) (*Match, bool) {
	m, err := newMatcher(routes).match(path, routes)
	if err != nil || m == nil {
		return nil, false
	}
	return m, true
}

type matcher struct {
	roots []*RouteState
	// absolute redirects already followed by this match
	seen map[*RouteState]struct{}
}

func newMatcher(roots []*RouteState) *matcher {
	return &matcher{roots: roots}
}

func (m *matcher) match(path string, routes []*RouteState) (*Match, error) {
	if len(routes) == 0 {
		return nil, nil
	}

	stack := splitLocation(path)
	for _, state := range routes {
		matched, err := m.match(path, state.Children)
		if err != nil || matched != nil {
			return matched, err
		}

		params, ok := matchPathParams(stack, state.PathStack)
		if !ok {
			continue
		}
		if state.RedirectTo == "" {
			return &Match{State: state, Params: params}, nil
		}
		return m.redirect(state, stack, params)
	}
	return nil, nil
}

func (m *matcher) redirect(state *RouteState, stack []string, params []Param) (*Match, error) {
	if state.IsRedirectToRoot {
		if _, ok := m.seen[state]; ok {
			return nil, fmt.Errorf("%w: %q", ErrRedirectLoop, state.Path)
		}
		if m.seen == nil {
			m.seen = make(map[*RouteState]struct{})
		}
		m.seen[state] = struct{}{}

		inner, err := m.match(state.RedirectTo, m.roots)
		if err != nil || inner == nil {
			return nil, err
		}
		redirectURL := state.RedirectTo
		if inner.Redirected {
			redirectURL = inner.RedirectURL
		}
		return &Match{
			State:       inner.State,
			Params:      inner.Params,
			Redirected:  true,
			RedirectURL: redirectURL,
		}, nil
	}

	target := state.redirectTarget
	if target == nil {
		var err error
		if target, err = findWithRedirectState(state, m.roots); err != nil {
			return nil, err
		}
	}

	// the redirect is sibling relative: swap the last segment of the
	// requested location for the target's own segment.
	prefix := strings.Join(stack[:len(stack)-1], "/")
	return &Match{
		State:       target,
		Params:      params,
		Redirected:  true,
		RedirectURL: JoinPath(prefix, configPath(target)),
	}, nil
}

// matchPathParams walks the location segments against a route's tokens.
// Both must have the same length unless a '**' token absorbs the rest.
func matchPathParams(stack []string, pattern []PathToken) ([]Param, bool) {
	var params []Param
	for i, seg := range stack {
		if i >= len(pattern) {
			return nil, false
		}
		tok := pattern[i]
		switch {
		case tok.IsParam():
			params = append(params, Param{Param: tok.Param, Value: seg})
		case tok.IsRest():
			return params, true
		case tok.IsWildcard():
		case seg != tok.Path:
			return nil, false
		}
	}
	if len(stack) < len(pattern) {
		return nil, false
	}
	return params, true
}

// findWithRedirectState resolves a relative redirect on a state tree
// that did not go through Compile.
func findWithRedirectState(from *RouteState, roots []*RouteState) (*RouteState, error) {
	return followRedirects(from, func(path string) (*RouteState, bool) {
		var found *RouteState
		walkStates(roots, func(state *RouteState) bool {
			if state.Path == path {
				found = state
				return false
			}
			return true
		})
		return found, found != nil
	})
}

// followRedirects follows a relative redirect chain until it reaches a
// route that does not redirect.
func followRedirects(from *RouteState, lookup func(string) (*RouteState, bool)) (*RouteState, error) {
	seen := map[*RouteState]struct{}{from: {}}
	path := from.RedirectTo
	for {
		target, ok := lookup(path)
		if !ok {
			return nil, configErrorf(from.Path, ErrRedirectTarget, "no route declares %q", path)
		}
		if target.RedirectTo == "" {
			return target, nil
		}
		if _, ok := seen[target]; ok {
			return nil, configErrorf(from.Path, ErrRedirectLoop, "%q redirects back to %q", target.Path, path)
		}
		seen[target] = struct{}{}
		path = target.RedirectTo
	}
}

func configPath(state *RouteState) string {
	if state.Config != nil {
		return state.Config.Path
	}
	if i := strings.LastIndexByte(state.Path, '/'); i >= 0 {
		return state.Path[i+1:]
	}
	return state.Path
}
