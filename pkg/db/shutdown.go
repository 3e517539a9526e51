package db

import (
	"context"
	"io"
)

// Shutdown returns a hook that closes the connection.
//
// Example:
//
//	app.Run(":8080", simplesite.ShutdownHook(db.Shutdown(conn)))
func Shutdown(c io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
