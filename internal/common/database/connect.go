// internal/common/database/connect.go
package database

import "context"

// Conn is a handle that can be checked and released.
type Conn interface {
	Ping(ctx context.Context) error
	Close() error
}

// Verify pings c and closes it when the ping fails. A retried connect loop
// calls it on every attempt, so a failed attempt must not keep its pool.
func Verify(ctx context.Context, c Conn) error {
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return err
	}
	return nil
}
