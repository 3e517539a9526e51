package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its configuration in package globals.
var migrateMu sync.Mutex

// MigrateConfig selects the migration source and bookkeeping table.
type MigrateConfig struct {
	// Dialect is the goose dialect, see Conn.Dialect.
	Dialect string
	// Dir is the directory inside FS holding the *.sql files.
	Dir   string
	Table string
}

// Migrate applies all pending migrations found in migrations.
//
// Example:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, conn.DB, migrations, db.MigrateConfig{
//	    Dialect: conn.Dialect(),
//	    Dir:     "migrations",
//	}, logger)
func Migrate(ctx context.Context, sqlDB *sql.DB, migrations fs.FS, cfg MigrateConfig, log *slog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Table == "" {
		cfg.Table = "schema_migrations"
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(cfg.Table)

	if err := goose.SetDialect(cfg.Dialect); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, sqlDB, cfg.Dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

// MigrationVersion returns the latest applied migration version.
func MigrationVersion(ctx context.Context, sqlDB *sql.DB, cfg MigrateConfig) (int64, error) {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if cfg.Table == "" {
		cfg.Table = "schema_migrations"
	}
	goose.SetTableName(cfg.Table)
	if err := goose.SetDialect(cfg.Dialect); err != nil {
		return 0, errors.Join(ErrSetDialect, err)
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	if g.log != nil {
		g.log.Info(fmt.Sprintf(format, args...))
	}
}

// Fatalf logs at error level only; goose returns the error to the caller,
// so the process is not terminated here.
func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	if g.log != nil {
		g.log.Error(fmt.Sprintf(format, args...))
	}
}
