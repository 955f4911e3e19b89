package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// RestrictMethod returns a new middleware that only lets the given HTTP
// methods through to the handler(s) downstream. Other methods get a 405
// Method Not Allowed with an Allow header listing the accepted ones.
func RestrictMethod(methods ...string) Interface {
	return &restrictMethodBuilder{methods: methods}
}

type restrictMethodBuilder struct {
	methods []string
}

func (m *restrictMethodBuilder) Wrap(h http.Handler) http.Handler {
	return restrictMethod{next: h, methods: m.methods}
}

type restrictMethod struct {
	next    http.Handler
	methods []string
}

func (m restrictMethod) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !slices.Contains(m.methods, r.Method) {
		w.Header().Set("Allow", strings.Join(m.methods, ", "))
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	m.next.ServeHTTP(w, r)
}
