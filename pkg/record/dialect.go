package record

import (
	"strconv"
	"strings"
)

// Dialect covers the SQL differences between supported databases.
type Dialect interface {
	// Name is the dialect name understood by goose.
	Name() string
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string
	// Quote quotes an identifier.
	Quote(ident string) string
	// ColumnsQuery lists the live column names of the table bound to the
	// single placeholder, in declaration order.
	ColumnsQuery() string
}

// Supported dialects.
var (
	Postgres Dialect = postgres{}
	SQLite   Dialect = sqlite{}
)

// DialectFor returns the dialect for a driver name ("postgres", "pgx",
// "sqlite", "sqlite3"). Unknown names fall back to Postgres.
func DialectFor(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite
	default:
		return Postgres
	}
}

type postgres struct{}

func (postgres) Name() string { return "postgres" }

func (postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgres) Quote(ident string) string { return quoteIdent(ident) }

func (postgres) ColumnsQuery() string {
	return "SELECT column_name FROM information_schema.columns " +
		"WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position"
}

type sqlite struct{}

func (sqlite) Name() string { return "sqlite3" }

func (sqlite) Placeholder(int) string { return "?" }

func (sqlite) Quote(ident string) string { return quoteIdent(ident) }

func (sqlite) ColumnsQuery() string {
	return "SELECT name FROM pragma_table_info(?) ORDER BY cid"
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
