package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// StoreError tags a store failure with its originating collection and
// operation so callers can log something more useful than a bare driver error.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(collection, op string, err error) error {
	return &StoreError{Collection: collection, Op: op, Err: err}
}

// MySQL error numbers that indicate an access-rule failure rather than bad data.
const (
	mysqlErrDBAccessDenied    = 1044
	mysqlErrAccessDenied      = 1045
	mysqlErrHostNotAllowed    = 1130
	mysqlErrTableAccessDenied = 1142
)

// IsConnectivityOrPermission reports whether a store failure is the kind the
// session layer may recover from locally: the backend being unreachable or an
// access rule rejecting the read. Structured driver errors are checked first;
// substring matching against the message is the last-resort fallback for
// errors that arrive as plain strings.
func IsConnectivityOrPermission(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDBAccessDenied, mysqlErrAccessDenied, mysqlErrHostNotAllowed, mysqlErrTableAccessDenied:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "offline") || strings.Contains(msg, "permissions")
}

// placeholders returns "?, ?, ..." for n bind parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
