// Package metrics exports Prometheus metrics about the navigations of a
// navi.Router.
//
// Metrics collected:
//   - navi_navigations_total: navigations that ran to completion, by outcome
//   - navi_navigation_duration_seconds: time from start to end
//   - navi_navigation_events_total: router events, by kind
//
// Superseded navigations never reach their end event and only show up in
// navi_navigation_events_total.
package metrics

import (
	"sync"
	"time"

	"github.com/lestrrat-go/navi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type config struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
	registry    prometheus.Registerer
}

type Option func(*config)

func WithNamespace(namespace string) Option {
	return func(c *config) {
		c.namespace = namespace
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		c.constLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// WithRegistry sets the registerer the metrics are created in. The
// default is prometheus.DefaultRegisterer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *config) {
		c.registry = registry
	}
}

var eventKinds = []navi.EventKind{
	navi.EventStart,
	navi.EventBeforeChange,
	navi.EventChange,
	navi.EventAfterChange,
	navi.EventNotFound,
	navi.EventError,
	navi.EventEnd,
}

type Collector struct {
	navigations *prometheus.CounterVec
	duration    prometheus.Histogram
	events      *prometheus.CounterVec
}

// New registers the metrics. Creating two collectors on the same registry
// panics, as with any duplicate Prometheus registration.
func New(opts ...Option) *Collector {
	c := config{
		namespace: "navi",
		buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&c)
	}

	factory := promauto.With(c.registry)
	return &Collector{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.namespace,
			Name:        "navigations_total",
			Help:        "Navigations that ran to completion, by outcome.",
			ConstLabels: c.constLabels,
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   c.namespace,
			Name:        "navigation_duration_seconds",
			Help:        "Time from the start of a navigation to its end.",
			ConstLabels: c.constLabels,
			Buckets:     c.buckets,
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.namespace,
			Name:        "navigation_events_total",
			Help:        "Router events, by kind.",
			ConstLabels: c.constLabels,
		}, []string{"event"}),
	}
}

// Attach starts observing r. The returned function stops it.
func (c *Collector) Attach(r *navi.Router) (detach func()) {
	removers := make([]func(), 0, len(eventKinds))
	for _, kind := range eventKinds {
		removers = append(removers, r.On(kind, c.observe))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, remove := range removers {
				remove()
			}
		})
	}
}

func (c *Collector) observe(ev navi.Event) {
	c.events.WithLabelValues(ev.Kind.String()).Inc()
	if ev.Kind != navi.EventEnd {
		return
	}
	c.navigations.WithLabelValues(ev.Outcome.String()).Inc()
	if ev.Navigation != nil {
		c.duration.Observe(time.Since(ev.Navigation.StartedAt()).Seconds())
	}
}
