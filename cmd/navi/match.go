package main

import (
	"fmt"

	"github.com/lestrrat-go/navi"
	"github.com/spf13/cobra"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "match PATH...",
		Short: "Match paths against the route tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := loadRoutes(flags)
			if err != nil {
				return err
			}
			routes, err := navi.Compile(configs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				m, ok := navi.MatchPath(path, routes)
				if !ok {
					fmt.Fprintf(out, "%s: no match\n", path)
					continue
				}
				fmt.Fprintf(out, "%s: %s", path, m.State.Path)
				if m.Redirected {
					fmt.Fprintf(out, " (redirected to %s)", m.RedirectURL)
				}
				for _, p := range m.Params {
					fmt.Fprintf(out, " %s=%s", p.Param, p.Value)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
