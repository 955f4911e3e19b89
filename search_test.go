package navi_test

import (
	"fmt"
	"testing"

	"github.com/lestrrat-go/navi"
	"github.com/stretchr/testify/require"
)

func TestParseSearch(t *testing.T) {
	testcases := []struct {
		Query    string
		Expected navi.Search
	}{
		{Query: "", Expected: navi.Search{}},
		{Query: "?", Expected: navi.Search{}},
		{Query: "?a=1&b=2&a=3", Expected: navi.Search{"a": {"1", "3"}, "b": {"2"}}},
		{Query: "&a=1", Expected: navi.Search{"a": {"1"}}},
		{Query: "?flag&x=", Expected: navi.Search{"flag": {""}, "x": {""}}},
		{Query: "?q=hello%20world&k%2F=v%3Dw", Expected: navi.Search{"q": {"hello world"}, "k/": {"v=w"}}},
		{Query: "?a=1&&b=2", Expected: navi.Search{"a": {"1"}, "b": {"2"}}},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("query = %q", tc.Query), func(t *testing.T) {
			require.Equal(t, tc.Expected, navi.ParseSearch(tc.Query))
		})
	}
}

func TestExtractSearch(t *testing.T) {
	testcases := []struct {
		Location string
		Expected navi.Search
	}{
		{Location: "/#/page", Expected: navi.Search{}},
		{Location: "/page?z=1", Expected: navi.Search{"z": {"1"}}},
		{Location: "/#/page?y=3", Expected: navi.Search{"y": {"3"}}},
		{
			Location: "/?x=1#/page?x=2&y=3",
			Expected: navi.Search{"x": {"1", "2"}, "y": {"3"}},
		},
		{
			Location: "/?x=1&x=2#/page?x=3",
			Expected: navi.Search{"x": {"1", "2", "3"}},
		},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("location = %q", tc.Location), func(t *testing.T) {
			require.Equal(t, tc.Expected, navi.ExtractSearch(tc.Location))
		})
	}
}

func TestSearchAccessors(t *testing.T) {
	s := navi.ExtractSearch("/#/list?tag=go&tag=web")
	require.Equal(t, "go", s.Get("tag"))
	require.Equal(t, []string{"go", "web"}, s.Values("tag"))
	require.True(t, s.Has("tag"))
	require.False(t, s.Has("page"))
	require.Empty(t, s.Get("page"))
}
