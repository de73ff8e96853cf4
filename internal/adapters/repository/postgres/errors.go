package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

const (
	uniqueViolation      = pq.ErrorCode("23505")
	foreignKeyViolation  = pq.ErrorCode("23503")
	connectionErrorClass = pq.ErrorClass("08")
	resourcesErrorClass  = pq.ErrorClass("53")
)

// storageError wraps err with the operation that failed. Failures to reach
// the database are marked with domain.ErrUnavailable.
func storageError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		class := pqErr.Code.Class()
		return class == connectionErrorClass || class == resourcesErrorClass
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation && pqErr.Constraint == constraint
}
