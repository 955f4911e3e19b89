package navi

import (
	"net/url"
	"strings"
)

// PathToken is one segment of a compiled route path.
type PathToken struct {
	// Path is the raw segment text. For parameter segments it keeps the
	// leading ':'.
	Path string
	// Param is the parameter name for ':name' segments, empty otherwise.
	Param string
}

// IsParam reports whether the token captures a ':name' segment.
func (t PathToken) IsParam() bool {
	return t.Param != ""
}

// IsWildcard reports whether the token matches any single segment.
func (t PathToken) IsWildcard() bool {
	return t.Param == "" && t.Path == "*"
}

// IsRest reports whether the token absorbs every remaining segment.
func (t PathToken) IsRest() bool {
	return t.Param == "" && t.Path == "**"
}

func (t PathToken) String() string {
	return t.Path
}

func decodePath(s string) string {
	s = strings.TrimSpace(s)
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

func stripSearch(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

// SplitPath tokenizes a route path. The path is URL-decoded, a single
// leading '/' and any trailing query string are removed, and the rest is
// split on '/'. An empty path yields a single empty literal token.
func SplitPath(path string) []PathToken {
	path = decodePath(path)
	if strings.HasPrefix(path, "/") {
		path = strings.TrimSpace(path[1:])
	}
	path = stripSearch(path)

	segments := strings.Split(path, "/")
	tokens := make([]PathToken, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			name = strings.TrimSpace(name)
			if name == "" {
				tokens = append(tokens, PathToken{})
				continue
			}
			tokens = append(tokens, PathToken{Path: seg, Param: name})
			continue
		}
		tokens = append(tokens, PathToken{Path: seg})
	}
	return tokens
}

// splitLocation splits a location string into raw segments for matching.
// Unlike SplitPath it also drops a '#' (and the '/' following it) so that
// hash fragments such as "#/users/1" can be matched directly.
func splitLocation(path string) []string {
	path = decodePath(path)
	for _, prefix := range []string{"/", "#", "/"} {
		if strings.HasPrefix(path, prefix) {
			path = strings.TrimSpace(path[1:])
		}
	}
	path = stripSearch(path)

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = strings.TrimSpace(seg)
	}
	return segments
}

// JoinPath joins a parent path and a child segment with exactly one '/'
// between them. The result always starts with '/'.
func JoinPath(parent, path string) string {
	parent = strings.TrimSuffix(parent, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = parent + path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
