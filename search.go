package navi

import (
	"net/url"
	"strings"
)

// Search holds query values keyed by name. Repeated keys keep every value
// in the order they appeared.
type Search map[string][]string

// Get returns the first value for key, or "" when absent.
func (s Search) Get(key string) string {
	if vs := s[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns every value of key in the order they appeared.
func (s Search) Values(key string) []string {
	return s[key]
}

// Has reports whether key appeared, even with an empty value.
func (s Search) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Search) add(key string, values ...string) {
	s[key] = append(s[key], values...)
}

// ParseSearch parses a single query string such as "?a=1&b=2&a=3".
// A pair without '=' is stored as the key with an empty value.
func ParseSearch(query string) Search {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "?") || strings.HasPrefix(query, "&") {
		query = strings.TrimSpace(query[1:])
	}

	result := Search{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		result.add(unescape(key), unescape(value))
	}
	return result
}

// ExtractSearch collects query values from a location. Both the query
// before a '#' and the query inside the hash fragment are read; for a key
// present in both, the fragment's values come after the others.
func ExtractSearch(location string) Search {
	location = strings.TrimSpace(location)

	var before, fragment string
	if i := strings.IndexByte(location, '#'); i >= 0 {
		before = queryOf(location[:i])
		fragment = queryOf(location[i:])
	} else {
		fragment = queryOf(location)
	}

	result := Search{}
	for _, part := range []Search{ParseSearch(before), ParseSearch(fragment)} {
		for key, values := range part {
			result.add(key, values...)
		}
	}
	return result
}

func queryOf(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[i:]
	}
	return ""
}

func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
