package storage

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rl1809/inventario/internal/core/domain"
)

const (
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	postgresFKViolation    = "23503"
	sqliteFKViolationError = "FOREIGN KEY constraint failed"
)

// translate turns a store level foreign key failure into a ConstraintError.
// Other errors pass through unchanged.
func translate(entity domain.Entity, id uint, reason string, err error) error {
	if err == nil || !isForeignKeyViolation(err) {
		return err
	}
	return &domain.ConstraintError{Entity: entity, ID: id, Reason: reason, Err: err}
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresFKViolation
	}
	return strings.Contains(err.Error(), sqliteFKViolationError)
}
