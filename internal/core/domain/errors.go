package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrConcertNotFound    = errors.New("concert not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTicketCount = errors.New("at least one ticket must be booked")
	ErrTooManyTickets     = errors.New("total tickets booked for this concert cannot exceed 3")
	ErrSoldOut            = errors.New("not enough tickets available")
	ErrRequestInProgress  = errors.New("a request with this idempotency key is still in progress")
	ErrIdempotencyReused  = errors.New("idempotency key was already used for a different request")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
