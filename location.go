package navi

import (
	"strings"
)

// normalizeLocation turns a user supplied path into the location format
// of the router: "/#/path" in hash mode, "/path" otherwise.
func normalizeLocation(path string, useHash bool) string {
	for _, prefix := range []string{"/", "#", "/"} {
		path = strings.TrimPrefix(path, prefix)
	}
	if useHash {
		return "/#/" + path
	}
	return "/" + path
}

// resolveLocation matches a location against the route table. When the
// match was redirected the returned state's URL is the redirected
// location.
func (t *routeTable) resolveLocation(url string, useHash bool) *NavigateState {
	search := ExtractSearch(url)
	hashIndex := strings.IndexByte(url, '#')
	pathname, hash := url, ""
	if hashIndex >= 0 {
		pathname, hash = url[:hashIndex], url[hashIndex:]
	}

	var m *Match
	var ok bool
	if useHash {
		if m, ok = MatchPath(hash, t.roots); ok && m.Redirected {
			url = rebuildHashLocation(url, hashIndex, m.RedirectURL)
		}
	} else {
		if m, ok = MatchPath(pathname, t.roots); ok && m.Redirected {
			url = rebuildPathLocation(url, hashIndex, m.RedirectURL)
		}
	}
	if !ok {
		return nil
	}
	return &NavigateState{
		URL:    url,
		State:  m.State,
		Params: m.Params,
		Search: search,
	}
}

// rebuildHashLocation replaces the path inside the hash fragment of url,
// keeping the query strings on both sides of the '#'.
func rebuildHashLocation(url string, hashIndex int, redirectURL string) string {
	head, fragment := url, ""
	if hashIndex >= 0 {
		head, fragment = url[:hashIndex], url[hashIndex:]
	}
	var search string
	if i := strings.IndexByte(fragment, '?'); i >= 0 {
		search = fragment[i:]
	}

	base, query, hasQuery := strings.Cut(head, "?")
	prefix := strings.TrimSuffix(base, "/") + "/"
	if hasQuery {
		prefix += "?" + query
	}

	if redirectURL == "" || redirectURL == "/" {
		if search == "" {
			return head
		}
		return prefix + "#/" + search
	}
	return prefix + "#" + redirectURL + search
}

// rebuildPathLocation replaces the path of url, keeping its query string
// and hash fragment.
func rebuildPathLocation(url string, hashIndex int, redirectURL string) string {
	head, fragment := url, ""
	if hashIndex >= 0 {
		head, fragment = url[:hashIndex], url[hashIndex:]
	}
	var search string
	if i := strings.IndexByte(head, '?'); i >= 0 {
		search = head[i:]
	}
	return redirectURL + search + fragment
}
