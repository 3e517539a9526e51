// Package db opens the site's database and applies its migrations.
//
// Two drivers are supported. PostgreSQL connects through a
// [github.com/jackc/pgx/v5/pgxpool] pool with startup retries and is
// bridged to database/sql with pgx's stdlib adapter. SQLite uses the pure
// Go [modernc.org/sqlite] driver and suits development and tests. Either
// way callers get a [Conn], which embeds *sql.DB and can be handed to the
// record mappers directly.
//
// # Configuration
//
// [Config] is filled from the environment:
//
//	DATABASE_DRIVER             - postgres or sqlite (default: postgres)
//	DATABASE_CONN_URL           - PostgreSQL connection URL
//	DATABASE_SQLITE_PATH        - SQLite file (default: simplesite.db)
//	DATABASE_MIGRATIONS_TABLE   - goose bookkeeping table (default: schema_migrations)
//	DATABASE_MAX_OPEN_CONNS     - pool size (default: 10)
//	DATABASE_MIN_CONNS          - idle connections kept open (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - idle connection lifetime (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - total connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - connection attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - base backoff (default: 5s)
//
// # Usage
//
//	conn, err := db.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	if err := db.Migrate(ctx, conn.DB, migrations, db.MigrateConfig{
//	    Dialect: conn.Dialect(),
//	    Dir:     "migrations",
//	}, logger); err != nil {
//	    return err
//	}
//
// [Healthcheck] adapts the connection to a readiness probe, [Shutdown]
// to a shutdown hook, and [WithTx] runs a function inside a transaction
// with rollback on error or panic.
//
// Errors are sentinel values joined with the driver error via
// [errors.Join], so both can be matched with [errors.Is].
package db
