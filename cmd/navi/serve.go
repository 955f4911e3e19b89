package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lestrrat-go/navi"
	"github.com/lestrrat-go/navi/httphost"
	"github.com/lestrrat-go/navi/metrics"
	"github.com/lestrrat-go/navi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route tree to a remote history client",
		Long: `serve runs a router whose session history lives in clients connected
to /ws. Navigations can be driven over HTTP as well; Prometheus
metrics are exported on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, flags, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func serve(ctx context.Context, flags *globalFlags, addr string) error {
	logger := newLogger(flags)
	configs, err := loadRoutes(flags)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	history := httphost.NewHistory("/")
	router := navi.New(
		navi.WithHistory(history),
		navi.WithHash(!flags.pathMode),
		navi.WithLogger(logger),
	)
	defer router.Destroy()
	defer metrics.New(metrics.WithRegistry(reg)).Attach(router)()

	if _, err := router.Initialize(configs); err != nil {
		return err
	}

	host := httphost.New(router, history,
		httphost.WithLogger(logger),
		httphost.WithMiddleware(middleware.AccessLog()),
	)
	defer host.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", host)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving routes", slog.String("addr", addr), slog.String("routes", flags.routes))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
