package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Mapper loads and persists entities of one type against a single table.
// A Mapper holds no per-record state and is safe for concurrent use.
// Two loads of the same key return two independent instances.
type Mapper[E Entity] struct {
	db      DB
	dialect Dialect
	schema  Schema
	newFn   func() E
	cfg     config
}

// New creates a mapper for the entity type produced by newFn.
//
// Example:
//
//	posts, err := record.New(db, record.Postgres, record.Schema{
//	    Table:   "posts",
//	    Columns: []string{"id", "title", "body"},
//	}, func() *Post { return &Post{} })
func New[E Entity](db DB, dialect Dialect, schema Schema, newFn func() E, opts ...Option) (*Mapper[E], error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := schema.validate(); err != nil {
		return nil, err
	}
	if len(schema.Columns) == 0 && !cfg.liveColumns {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, schema.Table)
	}
	if newFn == nil {
		return nil, fmt.Errorf("%w: nil constructor for %s", ErrInvalidSchema, schema.Table)
	}

	return &Mapper[E]{
		db:      db,
		dialect: dialect,
		schema:  schema,
		newFn:   newFn,
		cfg:     cfg,
	}, nil
}

// MustNew is like New but panics on an invalid schema.
// Intended for package-level mapper declarations built at startup.
func MustNew[E Entity](db DB, dialect Dialect, schema Schema, newFn func() E, opts ...Option) *Mapper[E] {
	m, err := New(db, dialect, schema, newFn, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// With returns a copy of the mapper bound to another handle, typically a
// transaction.
func (m *Mapper[E]) With(db DB) *Mapper[E] {
	cp := *m
	cp.db = db
	return &cp
}

// Schema returns the manifest the mapper was built with.
func (m *Mapper[E]) Schema() Schema {
	return m.schema
}

// FromMap builds a new entity from key/value input such as a decoded form.
func (m *Mapper[E]) FromMap(values map[string]any) E {
	e := m.newFn()
	e.Fields().Fill(values)
	return e
}

// FromRows builds one entity per row, preserving row order.
func (m *Mapper[E]) FromRows(rows []map[string]any) []E {
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		out = append(out, m.FromMap(row))
	}
	return out
}

// FromID loads the entity whose primary key equals id.
// Returns ErrNotFound when no row matches.
func (m *Mapper[E]) FromID(ctx context.Context, id any) (E, error) {
	return m.FindBy(ctx, m.schema.Key(), id)
}

// FindBy loads the first entity whose field equals value.
// Returns ErrNotFound when no row matches.
func (m *Mapper[E]) FindBy(ctx context.Context, field string, value any) (E, error) {
	var zero E
	if !m.schema.allows(field) {
		return zero, fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}

	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s LIMIT 1",
		m.table(), m.dialect.Quote(field), m.dialect.Placeholder(1))

	rows, err := m.query(ctx, q, value)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return m.FromMap(rows[0]), nil
}

// Fetch returns up to limit entities starting at offset, ordered by order.
// An empty order sorts by primary key descending. Order terms must name
// declared columns with an optional ASC or DESC.
func (m *Mapper[E]) Fetch(ctx context.Context, limit, offset int, order string) ([]E, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	offset = max(offset, 0)

	orderBy, err := m.schema.orderBy(m.dialect, order)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT %s OFFSET %s",
		m.table(), orderBy, m.dialect.Placeholder(1), m.dialect.Placeholder(2))

	rows, err := m.query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	return m.FromRows(rows), nil
}

// Count returns the number of rows in the table.
func (m *Mapper[E]) Count(ctx context.Context) (int64, error) {
	q := "SELECT COUNT(*) FROM " + m.table()
	m.trace(ctx, q)

	var n int64
	if err := m.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("record: count %s: %w", m.schema.Table, err)
	}
	return n, nil
}

// PageCount returns how many pages of limit rows the table holds.
// An empty table still has one page.
func (m *Mapper[E]) PageCount(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidLimit
	}
	n, err := m.Count(ctx)
	if err != nil {
		return 0, err
	}
	pages := int((n + int64(limit) - 1) / int64(limit))
	return max(pages, 1), nil
}

// Page returns the 1-based page of limit rows in default order.
// Page numbers below 1 are treated as 1.
func (m *Mapper[E]) Page(ctx context.Context, page, limit int) ([]E, error) {
	return m.Fetch(ctx, limit, PageOffset(page, limit), "")
}

// PageOffset returns the row offset of a 1-based page.
func PageOffset(page, limit int) int {
	return limit * (max(page, 1) - 1)
}

// Save upserts the entity keyed on its primary key and returns the key.
// Fields that are not columns are dropped silently. The returned key is
// also written back onto the entity.
func (m *Mapper[E]) Save(ctx context.Context, e E) (any, error) {
	cols, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}

	rec := e.Fields()
	q, args := m.buildUpsert(rec, cols)
	m.trace(ctx, q)

	var id any
	if err := m.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("record: save %s: %w", m.schema.Table, err)
	}
	id = normalize(id)
	rec.Set(m.schema.Key(), id)
	return id, nil
}

// Delete removes the row whose primary key equals the entity's key.
// Missing rows and entities without a key are not an error.
func (m *Mapper[E]) Delete(ctx context.Context, e E) error {
	key := e.Fields().Get(m.schema.Key())
	if emptyKey(key) {
		return nil
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		m.table(), m.dialect.Quote(m.schema.Key()), m.dialect.Placeholder(1))
	m.trace(ctx, q)

	if _, err := m.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("record: delete %s: %w", m.schema.Table, err)
	}
	return nil
}

// LiveColumns reads the table's current column names from the database.
func (m *Mapper[E]) LiveColumns(ctx context.Context) ([]string, error) {
	q := m.dialect.ColumnsQuery()
	m.trace(ctx, q)

	rows, err := m.db.QueryContext(ctx, q, m.schema.Table)
	if err != nil {
		return nil, fmt.Errorf("record: columns of %s: %w", m.schema.Table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, m.schema.Table)
	}
	return cols, nil
}

// Verify returns the manifest columns the live table does not have.
func (m *Mapper[E]) Verify(ctx context.Context) ([]string, error) {
	live, err := m.LiveColumns(ctx)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, col := range m.schema.Columns {
		if !slices.Contains(live, col) {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// columns returns the column set Save may write.
func (m *Mapper[E]) columns(ctx context.Context) ([]string, error) {
	if !m.cfg.liveColumns {
		return m.schema.Columns, nil
	}

	live, err := m.LiveColumns(ctx)
	if err != nil {
		return nil, err
	}
	if len(m.schema.Columns) == 0 {
		return live, nil
	}

	cols := make([]string, 0, len(m.schema.Columns))
	for _, col := range m.schema.Columns {
		if slices.Contains(live, col) {
			cols = append(cols, col)
		}
	}
	return cols, nil
}

// buildUpsert renders the INSERT … ON CONFLICT statement for the fields of
// rec that appear in cols. An unset or zero primary key is left out so the
// database assigns one.
func (m *Mapper[E]) buildUpsert(rec *Record, cols []string) (string, []any) {
	pk := m.schema.Key()

	var (
		names   []string
		markers []string
		sets    []string
		args    []any
	)
	for _, col := range cols {
		if !rec.Has(col) || !identRe.MatchString(col) {
			continue
		}
		if col == pk && emptyKey(rec.Get(col)) {
			continue
		}
		quoted := m.dialect.Quote(col)
		args = append(args, rec.Get(col))
		names = append(names, quoted)
		markers = append(markers, m.dialect.Placeholder(len(args)))
		sets = append(sets, quoted+" = excluded."+quoted)
	}

	if len(names) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s",
			m.table(), m.dialect.Quote(pk)), nil
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING %s",
		m.table(),
		strings.Join(names, ", "),
		strings.Join(markers, ", "),
		m.dialect.Quote(pk),
		strings.Join(sets, ", "),
		m.dialect.Quote(pk),
	), args
}

func (m *Mapper[E]) query(ctx context.Context, q string, args ...any) ([]map[string]any, error) {
	m.trace(ctx, q)
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("record: query %s: %w", m.schema.Table, err)
	}
	out, err := scanMaps(rows)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("record: scan %s", m.schema.Table), err)
	}
	return out, nil
}

func (m *Mapper[E]) table() string {
	return m.dialect.Quote(m.schema.Table)
}

func (m *Mapper[E]) trace(ctx context.Context, q string) {
	m.cfg.logger.DebugContext(ctx, "record sql",
		slog.String("table", m.schema.Table),
		slog.String("sql", q),
	)
}
