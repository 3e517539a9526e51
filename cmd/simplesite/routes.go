package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catdaemon/simplesite/cmd/simplesite/site"
	"github.com/catdaemon/simplesite/pkg/logger"
	"github.com/catdaemon/simplesite/pkg/record"
)

func routesCmd() *cobra.Command {
	var (
		match  string
		legacy bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table in match order",
		Long: `Print the route table in match order.

With --match, report whether a path would be routed and which segments
the pattern captures. Paths are given without the leading slash, the way
the dispatcher hands them to the router.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The route table does not touch the database.
			s, err := site.New(nil, record.Postgres)
			if err != nil {
				return err
			}
			cfg := Config{LegacyRouting: legacy}
			router := s.Router(cfg.routerOptions(logger.NewNope())...)

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("match") {
				_, args, ok := router.Match(match)
				if !ok {
					fmt.Fprintf(out, "%q: no route\n", router.Normalize(match))
					return nil
				}
				fmt.Fprintf(out, "%q: matched, args [%s]\n", router.Normalize(match), strings.Join(args, ", "))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tPATTERN")
			for i, pattern := range router.Routes() {
				fmt.Fprintf(w, "%d\t%s\n", i+1, pattern)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if err := router.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\npages: %s\n", strings.Join(s.Pages().Names(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "path to test against the table")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "match against the path including its query string")
	return cmd
}
