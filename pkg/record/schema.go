package record

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const defaultPK = "id"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema is the column manifest of one entity type.
// Only fields named in Columns are ever written by Save; everything else
// set on a record is ignored.
type Schema struct {
	Table   string
	PK      string // defaults to "id"
	Columns []string
}

// Key returns the primary key column name.
func (s Schema) Key() string {
	if s.PK == "" {
		return defaultPK
	}
	return s.PK
}

// HasColumn reports whether name is declared in the manifest.
func (s Schema) HasColumn(name string) bool {
	return slices.Contains(s.Columns, name)
}

// allows reports whether name may be referenced in generated SQL.
// Without a manifest any well-formed identifier is accepted.
func (s Schema) allows(name string) bool {
	if len(s.Columns) == 0 {
		return identRe.MatchString(name)
	}
	return s.HasColumn(name)
}

func (s Schema) validate() error {
	if !identRe.MatchString(s.Table) {
		return fmt.Errorf("%w: table name %q", ErrInvalidSchema, s.Table)
	}
	if !identRe.MatchString(s.Key()) {
		return fmt.Errorf("%w: primary key %q", ErrInvalidSchema, s.Key())
	}
	for _, col := range s.Columns {
		if !identRe.MatchString(col) {
			return fmt.Errorf("%w: column %q", ErrInvalidSchema, col)
		}
	}
	if len(s.Columns) > 0 && !s.HasColumn(s.Key()) {
		return fmt.Errorf("%w: primary key %q is not a declared column", ErrInvalidSchema, s.Key())
	}
	return nil
}

// orderBy turns a user supplied order clause such as "title ASC, id DESC"
// into quoted SQL. An empty clause orders by primary key, newest first.
func (s Schema) orderBy(d Dialect, order string) (string, error) {
	if strings.TrimSpace(order) == "" {
		return d.Quote(s.Key()) + " DESC", nil
	}

	terms := strings.Split(order, ",")
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		parts := strings.Fields(term)
		if len(parts) == 0 || len(parts) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
		}
		if !s.allows(parts[0]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
		}
		clause := d.Quote(parts[0])
		if len(parts) == 2 {
			dir := strings.ToUpper(parts[1])
			if dir != "ASC" && dir != "DESC" {
				return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
			}
			clause += " " + dir
		}
		out = append(out, clause)
	}
	return strings.Join(out, ", "), nil
}
