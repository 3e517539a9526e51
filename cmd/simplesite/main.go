// Command simplesite serves the demo site and manages its database.
//
//	simplesite serve --addr :8080
//	simplesite migrate
//	simplesite migrate version
//	simplesite routes --match blog/hello-world/
//
// Configuration comes from the environment, see Config.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplesite",
		Short: "A small database-backed web site",
		Long: `simplesite serves a blog with a contact form from PostgreSQL or SQLite.

Pages are picked by an ordered table of regular expressions matched
against the request path; the first match wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		routesCmd(),
		versionCmd(),
	)
	return cmd
}
