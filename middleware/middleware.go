// Package middleware holds the HTTP middlewares used in front of the
// remote history host.
package middleware

import "net/http"

type Interface interface {
	Wrap(http.Handler) http.Handler
}

// Func adapts an ordinary function to Interface.
type Func func(http.Handler) http.Handler

func (f Func) Wrap(h http.Handler) http.Handler {
	return f(h)
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...Interface) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		h = middlewares[i].Wrap(h)
	}
	return h
}
