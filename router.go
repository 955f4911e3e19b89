package navi

import (
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Router drives navigations over a compiled route tree.
//
// Every state change and every event happens on a single dispatcher
// goroutine, one task at a time. Guards run on their own goroutine per
// navigation and their results are handed back to the dispatcher, which
// drops them if the navigation was superseded in the meantime.
type Router struct {
	useHash bool
	history History
	logger  *slog.Logger
	tracer  trace.Tracer
	events  *emitter
	tasks   *taskQueue

	mu        sync.Mutex
	table     *routeTable
	current   *NavigateState
	latest    *Navigation
	nextID    uint64
	unlisten  func()
	destroyed bool
}

// New creates a router. Without options it uses hash locations, a
// MemoryHistory at "/", a discarding logger and the global tracer
// provider. Nothing happens until Initialize is called.
func New(opts ...Option) *Router {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.fill()

	return &Router{
		useHash: o.useHash,
		history: o.history,
		logger:  o.logger,
		tracer:  o.tracerProvider.Tracer(tracerName),
		events:  newEmitter(),
		tasks:   newTaskQueue(),
	}
}

// RouteVisitor is called for every compiled route by Walk.
type RouteVisitor interface {
	Visit(string, *RouteState)
}

// RouteVisitFunc adapts an ordinary function to RouteVisitor.
type RouteVisitFunc func(string, *RouteState)

func (f RouteVisitFunc) Visit(s string, state *RouteState) {
	f(s, state)
}

// Initialize compiles the route tree, subscribes to the history and
// starts navigating to the history's current location. A configuration
// error is returned before anything else happens.
//
// When the initial location redirects, the history entry is replaced
// rather than pushed, so going back never returns to the redirecting URL.
func (r *Router) Initialize(configs []*RouteConfig) (*Navigation, error) {
	table, err := compileTable(configs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	switch {
	case r.destroyed:
		r.mu.Unlock()
		return nil, ErrDestroyed
	case r.table != nil:
		r.mu.Unlock()
		return nil, errors.New("router is already initialized")
	}
	r.table = table
	r.mu.Unlock()

	go r.tasks.run()
	unlisten := r.history.Listen(r.popState)
	r.mu.Lock()
	r.unlisten = unlisten
	r.mu.Unlock()

	initial := r.history.Location()
	r.logger.Debug("router initialized", slog.String("location", initial), slog.Bool("hash", r.useHash))
	return r.start(initial, func(data NavigateData) {
		if data.To.URL != initial {
			r.history.Replace(data.To.URL)
		}
	}), nil
}

// Routes returns the compiled route tree, or nil before Initialize.
func (r *Router) Routes() []*RouteState {
	if table := r.routeTable(); table != nil {
		return table.roots
	}
	return nil
}

// CurrentState returns the last committed navigation state.
func (r *Router) CurrentState() *NavigateState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Match matches path against the compiled route tree.
func (r *Router) Match(path string) (*Match, bool) {
	table := r.routeTable()
	if table == nil {
		return nil, false
	}
	return MatchPath(path, table.roots)
}

// Lookup returns the route compiled for the exact absolute path.
func (r *Router) Lookup(path string) (*RouteState, bool) {
	table := r.routeTable()
	if table == nil {
		return nil, false
	}
	return table.index.lookup(JoinPath("", path))
}

// Walk visits every compiled route, parents first, in declaration order.
func (r *Router) Walk(v RouteVisitor) {
	table := r.routeTable()
	if table == nil {
		return
	}
	walkStates(table.roots, func(state *RouteState) bool {
		v.Visit(state.Path, state)
		return true
	})
}

// On registers fn for events of the given kind. Listeners are called on
// the dispatcher goroutine; they may start navigations but must not wait
// for them.
func (r *Router) On(kind EventKind, fn Listener) (remove func()) {
	return r.events.on(kind, fn)
}

// Navigate starts a navigation that pushes a history entry on commit.
func (r *Router) Navigate(path string) *Navigation {
	return r.navigate(path, r.history.Push)
}

// Replace starts a navigation that replaces the current history entry on
// commit.
func (r *Router) Replace(path string) *Navigation {
	return r.navigate(path, r.history.Replace)
}

// Go passes n straight to the history. The router navigates once the
// history reports the new location to its listeners.
func (r *Router) Go(n int) {
	r.history.Go(n)
}

func (r *Router) Back() {
	if r.routeTable() == nil {
		return
	}
	r.history.Back()
}

func (r *Router) Forward() {
	if r.routeTable() == nil {
		return
	}
	r.history.Forward()
}

// Destroy cancels the navigation in flight, removes every listener and
// stops the dispatcher. Calling it more than once is harmless.
func (r *Router) Destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	latest := r.latest
	unlisten := r.unlisten
	r.unlisten = nil
	r.mu.Unlock()

	if latest != nil && !latest.ended.Load() {
		latest.settle(OutcomeCanceled, nil)
	}
	if unlisten != nil {
		unlisten()
	}
	r.events.off()
	r.tasks.close()
	r.logger.Debug("router destroyed")
}

func (r *Router) routeTable() *routeTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table
}

func (r *Router) navigate(path string, mutate func(string)) *Navigation {
	r.mu.Lock()
	table, current, destroyed := r.table, r.current, r.destroyed
	r.mu.Unlock()

	path = normalizeLocation(path, r.useHash)
	switch {
	case destroyed:
		return settledNavigation(path, OutcomeFailed, ErrDestroyed)
	case table == nil:
		return settledNavigation(path, OutcomeFailed, ErrNotInitialized)
	case current != nil && current.URL == path:
		return settledNavigation(path, OutcomeUnchanged, nil)
	}
	return r.start(path, func(data NavigateData) {
		mutate(data.To.URL)
	})
}

// popState handles history traversal done outside of the router.
func (r *Router) popState(url string) {
	if current := r.CurrentState(); current != nil && current.URL == url {
		return
	}
	r.start(url, nil)
}

// start supersedes the latest navigation with a new one and schedules it
// on the dispatcher.
func (r *Router) start(url string, commit func(NavigateData)) *Navigation {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return settledNavigation(url, OutcomeFailed, ErrDestroyed)
	}
	r.nextID++
	nav := newNavigation(r.nextID, url, commit)
	prev := r.latest
	nav.prev = prev
	r.latest = nav
	r.mu.Unlock()

	if prev != nil && !prev.ended.Load() {
		prev.settle(OutcomeCanceled, nil)
	}
	if !r.tasks.post(func() { r.begin(nav) }) {
		nav.settle(OutcomeFailed, ErrDestroyed)
	}
	return nav
}

// active reports whether nav may still touch router state or emit.
func (r *Router) active(nav *Navigation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.destroyed && r.latest == nav
}

// emit delivers an event for nav and reports whether nav is still active
// afterwards. Nothing is delivered for an inactive navigation.
func (r *Router) emit(nav *Navigation, ev Event) bool {
	if !r.active(nav) {
		return false
	}
	ev.Navigation = nav
	ev.Data = nav.Data()
	r.events.emit(ev)
	return r.active(nav)
}

func (r *Router) begin(nav *Navigation) {
	if !r.active(nav) {
		return
	}
	// a navigation replacing one that is past its start event and still
	// running its guards or commit belongs to the same gesture and does
	// not announce itself again.
	prev := nav.prev
	skipStart := prev != nil && prev.settling && !prev.ended.Load()
	nav.prev = nil

	ctx, span := r.tracer.Start(nav.ctx, "navi.navigate", trace.WithAttributes(
		attribute.String("navi.url", nav.url),
		attribute.Int64("navi.id", int64(nav.id)),
	))
	nav.setSpan(span)

	r.mu.Lock()
	table, from := r.table, r.current
	r.mu.Unlock()

	to := table.resolveLocation(nav.url, r.useHash)
	nav.setData(NavigateData{From: from, To: to})

	if !skipStart && !r.emit(nav, Event{Kind: EventStart}) {
		return
	}

	if to == nil {
		r.logger.Debug("no route matched", slog.String("url", nav.url))
		if !r.emit(nav, Event{Kind: EventNotFound}) {
			return
		}
		r.end(nav, OutcomeNotFound, nil)
		return
	}

	nav.settling = true
	span.SetAttributes(attribute.String("navi.route", to.State.Path))
	guards := to.State.Guards
	if len(guards) == 0 {
		r.finish(nav, true, nil)
		return
	}

	data := nav.Data()
	go func() {
		ok, err := runGuards(ctx, guards, data)
		r.tasks.post(func() { r.finish(nav, ok, err) })
	}()
}

func (r *Router) finish(nav *Navigation, ok bool, err error) {
	if !r.active(nav) {
		return
	}

	data := nav.Data()
	switch {
	case err != nil:
		r.logger.Warn("navigation guard failed", slog.String("url", nav.url), slog.Any("error", err))
		err = &NavigateError{Data: data, Err: err}
		if !r.emit(nav, Event{Kind: EventError, Err: err}) {
			return
		}
		r.end(nav, OutcomeFailed, err)
	case !ok:
		r.logger.Debug("navigation denied", slog.String("url", nav.url))
		r.end(nav, OutcomeDenied, nil)
	default:
		if !r.emit(nav, Event{Kind: EventBeforeChange}) {
			return
		}
		r.mu.Lock()
		if r.destroyed || r.latest != nav {
			r.mu.Unlock()
			return
		}
		r.current = data.To
		r.mu.Unlock()

		if nav.commit != nil {
			nav.commit(data)
		}
		r.logger.Debug("navigation committed", slog.String("url", data.To.URL), slog.String("route", data.To.State.Path))
		if !r.emit(nav, Event{Kind: EventChange}) {
			return
		}
		if !r.emit(nav, Event{Kind: EventAfterChange}) {
			return
		}
		r.end(nav, OutcomeCommitted, nil)
	}
}

func (r *Router) end(nav *Navigation, outcome Outcome, err error) {
	nav.ended.Store(true)
	r.emit(nav, Event{Kind: EventEnd, Outcome: outcome})
	nav.settle(outcome, err)
}
