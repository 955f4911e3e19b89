package navi

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/lestrrat-go/navi"

type options struct {
	useHash        bool
	history        History
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

func defaultOptions() options {
	return options{
		useHash: true,
	}
}

// Option configures a Router.
type Option func(*options)

// WithHash selects hash locations ("/#/users/1", the default) or plain
// path locations ("/users/1").
func WithHash(v bool) Option {
	return func(o *options) {
		o.useHash = v
	}
}

// WithHistory sets the host history. The default is a MemoryHistory
// starting at "/".
func WithHistory(h History) Option {
	return func(o *options) {
		o.history = h
	}
}

// WithLogger sets the logger used for pipeline diagnostics. Nothing is
// logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTracerProvider sets the provider used to trace navigations. The
// global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func (o *options) fill() {
	if o.history == nil {
		o.history = NewMemoryHistory("/")
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
}
