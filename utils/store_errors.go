package utils

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
)

// IsStoreUnavailable reports whether err means the database could not be reached,
// as opposed to a query that failed on a healthy connection.
func IsStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
