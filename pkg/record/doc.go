// Package record maps rows of a single SQL table onto entity values.
//
// An entity is any type embedding [Record], an open field bag keyed by
// column name. Each entity type declares a [Schema]: the table, the
// primary key column and an explicit column manifest. A [Mapper] built from
// that schema provides load-by-key, paged fetches, hydration from rows or
// form input, upsert and delete.
//
// # Declaring an entity
//
//	type Post struct {
//	    record.Record
//	}
//
//	func (p *Post) Title() string { return p.String("title") }
//
//	var postSchema = record.Schema{
//	    Table:   "posts",
//	    Columns: []string{"id", "title", "body", "created_at"},
//	}
//
//	posts := record.MustNew(db, record.Postgres, postSchema, func() *Post { return &Post{} })
//
// # Loading
//
//	post, err := posts.FromID(ctx, 42)
//	if errors.Is(err, record.ErrNotFound) {
//	    // no such row
//	}
//
//	page, err := posts.Page(ctx, 2, 10)      // rows 11..20, newest first
//	pages, err := posts.PageCount(ctx, 10)   // at least 1
//
// Fetches that match nothing return an empty slice, not an error.
//
// # Saving
//
// [Mapper.Save] issues a single INSERT … ON CONFLICT (pk) DO UPDATE
// statement covering the fields that are both set on the record and
// declared in the manifest. Any other field is dropped without error, so
// records hydrated from a wider form or query can be saved directly:
//
//	post := posts.FromMap(map[string]any{"title": "Hello", "csrf": "x"})
//	id, err := posts.Save(ctx, post) // csrf is ignored
//
// Save returns the primary key on both the insert and the update path and
// stores it on the record.
//
// # Live schema
//
// [WithLiveColumns] intersects the manifest with the table's live columns
// on every save; with an empty manifest it persists whatever columns the
// table currently has. [Mapper.Verify] reports manifest columns missing
// from the live table and is meant to run once at startup.
//
// There is no transaction around the column query and the write: a
// concurrent schema change between the two can still fail the save.
//
// # Dialects
//
// [Postgres] and [SQLite] are supported. The mapper talks to
// database/sql, so it works with *sql.DB, *sql.Tx, and the pgx pool bridge
// returned by the db package.
package record
