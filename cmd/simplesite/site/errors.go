package site

import "errors"

// ErrSchemaDrift is returned by Verify when a table lacks mapped columns.
var ErrSchemaDrift = errors.New("site: table is missing mapped columns")
