package navi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lestrrat-go/navi"
	"github.com/stretchr/testify/require"
)

func sampleConfigs() []*navi.RouteConfig {
	return []*navi.RouteConfig{
		{Path: "", RedirectTo: "home"},
		{Path: "home", Component: "HomePage"},
		{
			Path:      "users",
			Component: "UserList",
			Children: []*navi.RouteConfig{
				{Path: "new", Component: "UserNew"},
				{
					Path:      ":id",
					Component: "UserShow",
					Children: []*navi.RouteConfig{
						{Path: "edit", Component: "UserEdit"},
					},
				},
			},
		},
		{Path: "settings/profile", Component: "Profile"},
	}
}

func collect(states []*navi.RouteState) []*navi.RouteState {
	var out []*navi.RouteState
	for _, s := range states {
		out = append(out, s)
		out = append(out, collect(s.Children)...)
	}
	return out
}

func TestCompile(t *testing.T) {
	states, err := navi.Compile(sampleConfigs())
	require.NoError(t, err, "compile should succeed")
	require.Len(t, states, 4, "top level order is preserved")

	var paths []string
	for _, s := range collect(states) {
		paths = append(paths, s.Path)
	}
	require.Equal(t, []string{
		"/",
		"/home",
		"/users",
		"/users/new",
		"/users/:id",
		"/users/:id/edit",
		"/settings/profile",
	}, paths)

	t.Run("path invariants", func(t *testing.T) {
		for _, s := range collect(states) {
			segments := strings.Split(strings.TrimPrefix(s.Path, "/"), "/")
			require.Len(t, s.PathStack, len(segments), "path stack of %q", s.Path)

			var parentPath string
			if s.Parent != nil {
				parentPath = s.Parent.Path
			}
			require.Equal(t, navi.JoinPath(parentPath, s.Config.Path), s.Path)
		}
	})

	t.Run("back references", func(t *testing.T) {
		users := states[2]
		require.Nil(t, users.Parent)
		require.Len(t, users.Children, 2)
		show := users.Children[1]
		require.Same(t, users, show.Parent)
		require.Same(t, show, show.Children[0].Parent)
		require.Equal(t, "UserEdit", show.Children[0].Component)
		require.Nil(t, states[1].Children, "leaf routes have no children")
	})

	t.Run("redirects", func(t *testing.T) {
		root := states[0]
		require.Equal(t, "/home", root.RedirectTo)
		require.False(t, root.IsRedirectToRoot)
		require.Empty(t, states[1].RedirectTo)
	})
}

func TestCompileRedirects(t *testing.T) {
	states, err := navi.Compile([]*navi.RouteConfig{
		{Path: "old", RedirectTo: "/app/dashboard"},
		{
			Path: "app",
			Children: []*navi.RouteConfig{
				{Path: "dashboard"},
				{Path: "index", RedirectTo: "dashboard"},
			},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "/app/dashboard", states[0].RedirectTo)
	require.True(t, states[0].IsRedirectToRoot)

	index := states[1].Children[1]
	require.Equal(t, "/app/dashboard", index.RedirectTo, "relative redirects resolve against the parent")
	require.False(t, index.IsRedirectToRoot)
}

func TestCompileRedirectDeclarationOrder(t *testing.T) {
	t.Run("target declared after a longer sibling", func(t *testing.T) {
		states, err := navi.Compile([]*navi.RouteConfig{
			{
				Path: "p",
				Children: []*navi.RouteConfig{
					{Path: "x", RedirectTo: "y"},
					{Path: "y/:id", Component: "Item"},
					{Path: "y", Component: "List"},
				},
			},
		})
		require.NoError(t, err)

		m, ok := navi.MatchPath("/p/x", states)
		require.True(t, ok)
		require.Equal(t, "/p/y", m.State.Path)
		require.Equal(t, "List", m.State.Component)
		require.Equal(t, "/p/y", m.RedirectURL)
	})
	t.Run("target ends in a segment declared at the root", func(t *testing.T) {
		states, err := navi.Compile([]*navi.RouteConfig{
			{Path: "a", Component: "A"},
			{Path: "b/a", Component: "BA"},
			{Path: "go", RedirectTo: "b/a"},
		})
		require.NoError(t, err)

		m, ok := navi.MatchPath("/go", states)
		require.True(t, ok)
		require.Equal(t, "/b/a", m.State.Path)
		require.Equal(t, "BA", m.State.Component)
	})
	t.Run("first declaration wins", func(t *testing.T) {
		states, err := navi.Compile([]*navi.RouteConfig{
			{Path: "go", RedirectTo: "dup"},
			{Path: "dup/:id"},
			{Path: "dup", Component: "First"},
			{Path: "dup", Component: "Second"},
		})
		require.NoError(t, err)

		m, ok := navi.MatchPath("/go", states)
		require.True(t, ok)
		require.Equal(t, "First", m.State.Component)
	})
}

type countingGuard struct {
	navi.Guard
	n int
}

func TestCompileGuards(t *testing.T) {
	var created []int
	factory := func(n int) navi.GuardFactory {
		return func() (navi.Guard, error) {
			created = append(created, n)
			return &countingGuard{Guard: navi.Allow, n: n}, nil
		}
	}

	states, err := navi.Compile([]*navi.RouteConfig{
		{Path: "a", Guards: []navi.GuardFactory{factory(1), factory(2)}},
		{Path: "b", Guards: []navi.GuardFactory{factory(3)}},
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, created, "guards are created once, in order")
	require.Len(t, states[0].Guards, 2)
	require.Equal(t, 2, states[0].Guards[1].(*countingGuard).n)

	t.Run("factory failure aborts compilation", func(t *testing.T) {
		boom := errors.New("boom")
		states, err := navi.Compile([]*navi.RouteConfig{
			{Path: "a"},
			{
				Path: "b",
				Children: []*navi.RouteConfig{
					{Path: "c", Guards: []navi.GuardFactory{func() (navi.Guard, error) { return nil, boom }}},
				},
			},
		})
		require.Error(t, err)
		require.Nil(t, states)
		require.ErrorIs(t, err, navi.ErrGuardFactory)

		var cerr *navi.ConfigError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, "/b/c", cerr.Path)
		require.Contains(t, cerr.Error(), "boom")
	})

	t.Run("nil factory", func(t *testing.T) {
		_, err := navi.Compile([]*navi.RouteConfig{{Path: "a", Guards: []navi.GuardFactory{nil}}})
		require.ErrorIs(t, err, navi.ErrGuardFactory)
	})
}

func TestCompileConfigErrors(t *testing.T) {
	testcases := []struct {
		Name     string
		Configs  []*navi.RouteConfig
		Expected error
	}{
		{
			Name: "unresolved relative redirect",
			Configs: []*navi.RouteConfig{
				{Path: "p", Children: []*navi.RouteConfig{{Path: "x", RedirectTo: "missing"}}},
			},
			Expected: navi.ErrRedirectTarget,
		},
		{
			Name: "relative redirect loop",
			Configs: []*navi.RouteConfig{
				{Path: "a", RedirectTo: "b"},
				{Path: "b", RedirectTo: "a"},
			},
			Expected: navi.ErrRedirectLoop,
		},
		{
			Name: "absolute redirect loop",
			Configs: []*navi.RouteConfig{
				{Path: "a", RedirectTo: "/b"},
				{Path: "b", RedirectTo: "/a"},
			},
			Expected: navi.ErrRedirectLoop,
		},
		{
			Name: "absolute redirect to itself",
			Configs: []*navi.RouteConfig{
				{Path: "a", RedirectTo: "/a"},
			},
			Expected: navi.ErrRedirectLoop,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.Name, func(t *testing.T) {
			states, err := navi.Compile(tc.Configs)
			require.ErrorIs(t, err, tc.Expected)
			require.Nil(t, states)
		})
	}

	t.Run("absolute redirect to an unknown path is not a config error", func(t *testing.T) {
		_, err := navi.Compile([]*navi.RouteConfig{{Path: "a", RedirectTo: "/nowhere"}})
		require.NoError(t, err)
	})
}
