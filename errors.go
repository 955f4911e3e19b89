package navi

import (
	"errors"
	"fmt"
)

var (
	// ErrGuardFactory is wrapped by a ConfigError when a guard could not be
	// instantiated.
	ErrGuardFactory = errors.New("guard factory failed")
	// ErrRedirectTarget is wrapped by a ConfigError when a relative
	// redirect points at a path no route declares.
	ErrRedirectTarget = errors.New("redirect target not found")
	// ErrRedirectLoop is wrapped by a ConfigError when following redirects
	// comes back to a route already visited.
	ErrRedirectLoop = errors.New("redirect loop")

	ErrNotInitialized = errors.New("router is not initialized")
	ErrDestroyed      = errors.New("router is destroyed")
	ErrGuardPanic     = errors.New("guard panicked")
)

// ConfigError describes a route configuration that cannot be compiled.
type ConfigError struct {
	// Path is the absolute path of the offending route.
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("route %q: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("route %q: %s: %s", e.Path, e.Err, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(path string, err error, format string, args ...any) *ConfigError {
	return &ConfigError{
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// NavigateError is the error carried by EventError and returned from
// Navigation.Wait when a guard fails.
type NavigateError struct {
	Data NavigateData
	Err  error
}

func (e *NavigateError) Error() string {
	if e.Data.To == nil {
		return fmt.Sprintf("navigation failed: %s", e.Err)
	}
	return fmt.Sprintf("navigation to %q failed: %s", e.Data.To.URL, e.Err)
}

func (e *NavigateError) Unwrap() error {
	return e.Err
}
