package record

import "errors"

var (
	ErrNotFound      = errors.New("record: not found")
	ErrUnknownColumn = errors.New("record: unknown column")
	ErrInvalidOrder  = errors.New("record: invalid order clause")
	ErrInvalidLimit  = errors.New("record: limit must be positive")
	ErrInvalidSchema = errors.New("record: invalid schema")
	ErrNoColumns     = errors.New("record: schema declares no columns")
	ErrUnknownTable  = errors.New("record: table has no columns in the live schema")
)
