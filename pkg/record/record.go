package record

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Entity is implemented by every type the mapper can hydrate and persist.
// Embedding Record in a struct is enough:
//
//	type Post struct {
//	    record.Record
//	}
//
//	func (p *Post) Title() string { return p.String("title") }
type Entity interface {
	Fields() *Record
}

// Record is an open field bag keyed by column name.
// The zero value is ready to use.
type Record struct {
	values map[string]any
}

// Fields returns the record itself so that embedding types satisfy Entity.
func (r *Record) Fields() *Record {
	return r
}

// Get returns the raw value of field, or nil when the field was never set.
func (r *Record) Get(field string) any {
	return r.values[field]
}

// Has reports whether field has been set, even to nil.
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// Set assigns a value to field. Byte slices are copied into strings
// because drivers reuse their scan buffers.
func (r *Record) Set(field string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	r.values[field] = value
}

// Unset removes field from the record.
func (r *Record) Unset(field string) {
	delete(r.values, field)
}

// Fill copies every key of row onto the record, overwriting existing values
// and adding unknown keys.
func (r *Record) Fill(row map[string]any) {
	for k, v := range row {
		r.Set(k, v)
	}
}

// Keys returns the set field names in lexical order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Values returns a copy of the field bag.
func (r *Record) Values() map[string]any {
	return maps.Clone(r.values)
}

// String returns field formatted as text. Unknown or nil fields read as "".
func (r *Record) String(field string) string {
	switch v := r.Get(field).(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns field as an integer. Non-numeric values read as 0.
func (r *Record) Int64(field string) int64 {
	switch v := r.Get(field).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Time returns field as a time. Strings are parsed as RFC 3339 or as the
// "2006-01-02 15:04:05" layout SQLite uses for CURRENT_TIMESTAMP.
func (r *Record) Time(field string) time.Time {
	switch v := r.Get(field).(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
