package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// translate переводит ошибки GORM в доменные
func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, domain.ErrConstraintViolation)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
