package site

import (
	"context"
	"log/slog"

	"github.com/catdaemon/simplesite/pkg/db"
)

// Migrate applies the embedded migrations matching the connection's
// driver. An empty table uses the db package default.
func Migrate(ctx context.Context, conn *db.Conn, table string, log *slog.Logger) error {
	return db.Migrate(ctx, conn.DB, Migrations(), migrateConfig(conn, table), log)
}

// MigrationVersion returns the latest applied migration.
func MigrationVersion(ctx context.Context, conn *db.Conn, table string) (int64, error) {
	return db.MigrationVersion(ctx, conn.DB, migrateConfig(conn, table))
}

func migrateConfig(conn *db.Conn, table string) db.MigrateConfig {
	return db.MigrateConfig{
		Dialect: conn.Dialect(),
		Dir:     conn.Dialect(),
		Table:   table,
	}
}
