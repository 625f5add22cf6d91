package database

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Storage failure classes.  Classify maps raw driver errors onto these so
// the lifecycle layer can decide between conflict, validation and
// transaction failures without knowing the driver.
var (
	ErrForeignKey = errors.New("foreign key violation")
	ErrDuplicate  = errors.New("duplicate key")
	ErrNotNull    = errors.New("not null violation")
	ErrDeadlock   = errors.New("deadlock or lock wait")
	ErrTimeout    = errors.New("operation timed out")
)

// classified keeps the driver error reachable through errors.Unwrap while
// matching its class through errors.Is.
type classified struct {
	class error
	cause error
}

func (c *classified) Error() string        { return c.class.Error() + ": " + c.cause.Error() }
func (c *classified) Unwrap() error        { return c.cause }
func (c *classified) Is(target error) bool { return target == c.class }

// Classify wraps err with its storage class.  Unknown errors are returned
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var c *classified
	if errors.As(err, &c) {
		return err
	}
	if class := classOf(err); class != nil {
		return &classified{class: class, cause: err}
	}
	return err
}

func classOf(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1451, 1452, 1216, 1217: // ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2, legacy codes
			return ErrForeignKey
		case 1062: // ER_DUP_ENTRY
			return ErrDuplicate
		case 1048: // ER_BAD_NULL_ERROR
			return ErrNotNull
		case 1213, 1205: // ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
			return ErrDeadlock
		case 3024: // ER_QUERY_TIMEOUT
			return ErrTimeout
		}
		return nil
	}
	// go-sqlite3 is only linked into tests; match its messages.
	s := err.Error()
	switch {
	case strings.Contains(s, "FOREIGN KEY constraint failed"):
		return ErrForeignKey
	case strings.Contains(s, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(s, "NOT NULL constraint failed"):
		return ErrNotNull
	case strings.Contains(s, "database is locked"):
		return ErrDeadlock
	}
	return nil
}
