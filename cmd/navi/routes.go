package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lestrrat-go/navi"
	"github.com/spf13/cobra"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the compiled routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := loadRoutes(flags)
			if err != nil {
				return err
			}
			routes, err := navi.Compile(configs)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tCOMPONENT\tREDIRECT\tGUARDS")
			printRoutes(w, routes)
			return w.Flush()
		},
	}
}

func printRoutes(w *tabwriter.Writer, routes []*navi.RouteState) {
	for _, state := range routes {
		component := "-"
		if state.Component != nil {
			component = fmt.Sprint(state.Component)
		}
		redirect := "-"
		if state.RedirectTo != "" {
			redirect = state.RedirectTo
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%d\n",
			strings.Repeat("  ", depth(state)), state.Path, component, redirect, len(state.Guards))
		printRoutes(w, state.Children)
	}
}

func depth(state *navi.RouteState) int {
	var n int
	for p := state.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}
