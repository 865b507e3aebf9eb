package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrLogNotFound  = errors.New("daily log not found")

	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)

	ErrUnauthorized = errors.New("unauthorized")
	ErrDuplicate    = errors.New("duplicate record")

	// ErrUnavailable marks a failed collaborator call (data store, text completion).
	ErrUnavailable = errors.New("collaborator unavailable")
)
