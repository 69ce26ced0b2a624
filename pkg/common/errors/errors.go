package errors

import (
	"errors"
	"fmt"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	rawErrUserNotFound   = errors.New("user not found")
	rawErrPostNotFound   = errors.New("post not found")
	rawErrDuplicateEmail = errors.New("email already registered")
)

var (
	ErrUserNotFound     = hzte.New(rawErrUserNotFound, hzte.ErrorTypePublic, nil)
	ErrPostNotFound     = hzte.New(rawErrPostNotFound, hzte.ErrorTypePublic, nil)
	ErrDuplicateEmail   = hzte.New(rawErrDuplicateEmail, hzte.ErrorTypePublic, nil)
	ErrDatabaseInternal = errors.New("database internal error")
)

// WrapGormError turns raw GORM/driver errors into the sentinel errors the
// handlers branch on. Record-not-found stays generic here; repositories map
// it to the entity-specific sentinel themselves.
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	if errors.Is(rawErr, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // unique constraint violation
			return ErrDuplicateEmail
		case 1045, 1049, 1146:
			return fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message)
		}
	}

	if errors.Is(rawErr, gorm.ErrInvalidDB) ||
		errors.Is(rawErr, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
	}

	return rawErr
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
