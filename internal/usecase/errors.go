package usecase

import (
	"errors"

	"travel-backoffice/internal/data/repository"
)

// Handlers map these with errors.Is; messages carry the details.
var (
	ErrNotFound          = repository.ErrNotFound
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("invalid state")
)
