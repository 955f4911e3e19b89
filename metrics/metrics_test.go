package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/navi"
	"github.com/lestrrat-go/navi/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func settle(t *testing.T, nav *navi.Navigation) navi.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := nav.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(metrics.WithRegistry(reg))

	r := navi.New(
		navi.WithHistory(navi.NewMemoryHistory("/")),
		navi.WithTracerProvider(noop.NewTracerProvider()),
	)
	defer r.Destroy()
	detach := c.Attach(r)

	nav, err := r.Initialize([]*navi.RouteConfig{
		{Path: "", RedirectTo: "home"},
		{Path: "home", Component: "Home"},
		{Path: "about", Component: "About"},
	})
	require.NoError(t, err)
	require.Equal(t, navi.OutcomeCommitted, settle(t, nav))
	require.Equal(t, navi.OutcomeCommitted, settle(t, r.Navigate("about")))
	require.Equal(t, navi.OutcomeNotFound, settle(t, r.Navigate("nowhere")))

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP navi_navigations_total Navigations that ran to completion, by outcome.
# TYPE navi_navigations_total counter
navi_navigations_total{outcome="committed"} 2
navi_navigations_total{outcome="not_found"} 1
# HELP navi_navigation_events_total Router events, by kind.
# TYPE navi_navigation_events_total counter
navi_navigation_events_total{event="after_change"} 2
navi_navigation_events_total{event="before_change"} 2
navi_navigation_events_total{event="change"} 2
navi_navigation_events_total{event="end"} 3
navi_navigation_events_total{event="not_found"} 1
navi_navigation_events_total{event="start"} 3
`), "navi_navigations_total", "navi_navigation_events_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "navi_navigation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	t.Run("detach", func(t *testing.T) {
		detach()
		detach()
		require.Equal(t, navi.OutcomeCommitted, settle(t, r.Navigate("home")))

		count, err := testutil.GatherAndCount(reg, "navi_navigations_total")
		require.NoError(t, err)
		require.Equal(t, 2, count, "no new outcome series after detaching")
	})
}

func TestNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("app"))

	count, err := testutil.GatherAndCount(reg, "app_navigation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Panics(t, func() {
		metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("app"))
	}, "duplicate registration")
}
