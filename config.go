package navi

// RouteConfig is one node of a declarative route tree. Configs are read
// by Compile and never modified.
type RouteConfig struct {
	// Path is the segment(s) this route adds to its parent's path.
	Path string
	// RedirectTo is either absolute (leading '/') or relative to the
	// parent route's path.
	RedirectTo string
	// Component is an opaque handle handed back to the rendering layer.
	Component any
	// Guards are instantiated once, at compile time, in order.
	Guards   []GuardFactory
	Children []*RouteConfig
}

// GuardFactory creates a Guard instance for a compiled route.
type GuardFactory func() (Guard, error)

// NewGuard returns a GuardFactory that always yields g.
func NewGuard(g Guard) GuardFactory {
	return func() (Guard, error) {
		return g, nil
	}
}
