package navi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NavigateState describes a location resolved against the route tree.
type NavigateState struct {
	URL    string
	State  *RouteState
	Params []Param
	Search Search
}

// Param returns the value captured for the named path parameter.
func (s *NavigateState) Param(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, p := range s.Params {
		if p.Param == name {
			return p.Value, true
		}
	}
	return "", false
}

// Component returns the matched route's component, or nil.
func (s *NavigateState) Component() any {
	if s == nil || s.State == nil {
		return nil
	}
	return s.State.Component
}

// NavigateData describes a transition. To is nil when the location did
// not match any route.
type NavigateData struct {
	From *NavigateState
	To   *NavigateState
}

// Outcome is how a navigation settled.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCommitted
	OutcomeNotFound
	OutcomeDenied
	OutcomeFailed
	OutcomeCanceled
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCommitted:
		return "committed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDenied:
		return "denied"
	case OutcomeFailed:
		return "failed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Navigation is the token of a single navigation attempt. It is canceled
// the moment another navigation starts, after which nothing it produces
// reaches the router's state or its listeners.
type Navigation struct {
	id      uint64
	url     string
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	// owned by the dispatcher
	prev *Navigation
	// set once the navigation matched and announced itself; it is then
	// waiting on its guards or committing.
	settling bool
	commit   func(NavigateData)
	// set once the end event is being delivered; from then on the
	// navigation can no longer be canceled.
	ended atomic.Bool

	mu      sync.Mutex
	navData NavigateData
	span    trace.Span
	once    sync.Once
	outcome Outcome
	err     error
}

func newNavigation(id uint64, url string, commit func(NavigateData)) *Navigation {
	ctx, cancel := context.WithCancel(context.Background())
	return &Navigation{
		id:      id,
		url:     url,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		commit:  commit,
	}
}

// settledNavigation returns a navigation that never ran.
func settledNavigation(url string, outcome Outcome, err error) *Navigation {
	nav := newNavigation(0, url, nil)
	nav.cancel()
	nav.settle(outcome, err)
	return nav
}

func (n *Navigation) ID() uint64 {
	return n.id
}

// URL is the normalized location this navigation was asked to reach.
func (n *Navigation) URL() string {
	return n.url
}

func (n *Navigation) StartedAt() time.Time {
	return n.started
}

// Canceled reports whether the navigation has been superseded or the
// router destroyed before it could finish.
func (n *Navigation) Canceled() bool {
	outcome, _ := n.Result()
	return outcome == OutcomeCanceled
}

// Data returns the transition this navigation describes. It is empty
// until the navigation has been matched.
func (n *Navigation) Data() NavigateData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.navData
}

func (n *Navigation) setData(data NavigateData) {
	n.mu.Lock()
	n.navData = data
	n.mu.Unlock()
}

// Done is closed once the navigation has settled.
func (n *Navigation) Done() <-chan struct{} {
	return n.done
}

// Wait blocks until the navigation settles or ctx is done. The error is
// the guard failure for OutcomeFailed, or ctx's error.
//
// Wait must not be called from an event listener: listeners run on the
// goroutine that settles navigations.
func (n *Navigation) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-n.done:
		return n.Result()
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// Result returns the outcome without blocking.
func (n *Navigation) Result() (Outcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.outcome, n.err
}

func (n *Navigation) setSpan(span trace.Span) {
	n.mu.Lock()
	n.span = span
	n.mu.Unlock()
}

func (n *Navigation) settle(outcome Outcome, err error) {
	n.once.Do(func() {
		n.mu.Lock()
		n.outcome = outcome
		n.err = err
		span := n.span
		n.mu.Unlock()

		if span != nil {
			span.SetAttributes(attribute.String("navi.outcome", outcome.String()))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
		n.cancel()
		close(n.done)
	})
}
