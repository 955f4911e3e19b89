package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/navi"
	"github.com/lestrrat-go/navi/routeconf"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	routes   string
	pathMode bool
	verbose  bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "navi: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "navi",
		Short: "Inspect and serve navi route trees",
		Long: `navi loads a route tree from a YAML or TOML document and lets you
list its routes, match locations against it, or serve it over HTTP
for a remote history client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.routes, "routes", "r", "routes.yaml", "route document (.yaml, .yml or .toml)")
	cmd.PersistentFlags().BoolVar(&flags.pathMode, "path-mode", false, "match the URL path instead of the hash fragment")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log router internals")

	cmd.AddCommand(
		routesCmd(&flags),
		matchCmd(&flags),
		serveCmd(&flags),
	)
	return cmd
}

func newLogger(flags *globalFlags) *slog.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "navi",
	})
	if flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return slog.New(logger)
}

// loadRoutes reads the route document. Names nothing registered resolve
// leniently since the CLI has no components of its own.
func loadRoutes(flags *globalFlags) ([]*navi.RouteConfig, error) {
	doc, err := routeconf.Load(flags.routes)
	if err != nil {
		return nil, err
	}
	return routeconf.NewRegistry(routeconf.WithLenient()).Build(doc)
}
