package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catdaemon/simplesite/cmd/simplesite/site"
	"github.com/catdaemon/simplesite/pkg/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			conn, err := db.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer conn.Close()

			return site.Migrate(cmd.Context(), conn, cfg.DB.MigrationsTable, log)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the latest applied migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			conn, err := db.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer conn.Close()

			version, err := site.MigrationVersion(cmd.Context(), conn, cfg.DB.MigrationsTable)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s migration version %d\n", conn.Dialect(), version)
			return nil
		},
	})
	return cmd
}
