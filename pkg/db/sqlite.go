package db

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every fresh SQLite handle.
var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
// The handle is limited to one connection: SQLite serialises writers anyway,
// and ":memory:" databases are private to a single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, errors.Join(ErrFailedToOpenDBConnection, err)
		}
	}
	return sqlDB, nil
}
