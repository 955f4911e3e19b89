package navi_test

import (
	"fmt"
	"testing"

	"github.com/lestrrat-go/navi"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	testcases := []struct {
		Path     string
		Expected []navi.PathToken
	}{
		{
			Path:     "",
			Expected: []navi.PathToken{{}},
		},
		{
			Path:     "/",
			Expected: []navi.PathToken{{}},
		},
		{
			Path: "/users/:id/edit",
			Expected: []navi.PathToken{
				{Path: "users"},
				{Path: ":id", Param: "id"},
				{Path: "edit"},
			},
		},
		{
			Path: "docs/*/**?lang=en",
			Expected: []navi.PathToken{
				{Path: "docs"},
				{Path: "*"},
				{Path: "**"},
			},
		},
		{
			Path:     "/a/:",
			Expected: []navi.PathToken{{Path: "a"}, {}},
		},
		{
			Path:     "/caf%C3%A9/%3Aid",
			Expected: []navi.PathToken{{Path: "café"}, {Path: ":id", Param: "id"}},
		},
	}

	for _, tc := range testcases {
		t.Run(fmt.Sprintf("path = %q", tc.Path), func(t *testing.T) {
			require.Equal(t, tc.Expected, navi.SplitPath(tc.Path))
		})
	}
}

func TestPathTokenKinds(t *testing.T) {
	tokens := navi.SplitPath("/:id/*/**/static")
	require.Len(t, tokens, 4)
	require.True(t, tokens[0].IsParam())
	require.True(t, tokens[1].IsWildcard())
	require.True(t, tokens[2].IsRest())
	require.False(t, tokens[3].IsParam() || tokens[3].IsWildcard() || tokens[3].IsRest())
}

func TestJoinPath(t *testing.T) {
	testcases := []struct {
		Parent, Path, Expected string
	}{
		{"", "", "/"},
		{"", "a", "/a"},
		{"/", "a", "/a"},
		{"/a", "b", "/a/b"},
		{"/a/", "b", "/a/b"},
		{"/a", "/b", "/a/b"},
		{"a", "b", "/a/b"},
		{"/a", "", "/a/"},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%q + %q", tc.Parent, tc.Path), func(t *testing.T) {
			require.Equal(t, tc.Expected, navi.JoinPath(tc.Parent, tc.Path))
		})
	}
}
