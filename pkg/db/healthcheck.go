package db

import (
	"context"
	"errors"
)

// Pinger is satisfied by *sql.DB and *Conn.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthcheck returns a readiness check that pings the database.
func Healthcheck(p Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := p.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
