package domain

import (
	"errors"
	"fmt"
)

// Error categories. Callers match on these with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("invalid input")
	ErrExternalService = errors.New("external service failure")
	ErrRoomDestroyed   = errors.New("room destroyed")
)

var (
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)

	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrUnauthorized)

	ErrFriendlyNameEmpty = fmt.Errorf("%w: friendly name empty", ErrValidation)
	ErrUsernameEmpty     = fmt.Errorf("%w: username empty", ErrValidation)
	ErrUsernameTooLong   = fmt.Errorf("%w: username too long", ErrValidation)
	ErrInvalidDirection  = fmt.Errorf("%w: invalid direction", ErrValidation)
)
