package services

import (
	"errors"
	"fmt"

	"crmdash/internal/repositories"
)

var (
	ErrNotFound           = repositories.ErrNotFound
	ErrValidation         = errors.New("validation failed")
	ErrInvalidStage       = errors.New("invalid stage")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
