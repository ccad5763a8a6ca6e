package usecase

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// validate проверяет struct-теги входных данных и оборачивает ошибку в domain.ErrValidation
func validate(v *validator.Validate, in any) error {
	if err := v.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}
