package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// BookTicketsInput is the DTO passed from the transport layer to BookingService.
type BookTicketsInput struct {
	Caller    domain.Identity
	UserID    string // empty = the caller
	ConcertID string
	Tickets   int
	// IdempotencyKey, when set, makes repeated submissions replay the first result.
	IdempotencyKey string
}

// BookTicketsResult is returned by BookTickets.
type BookTicketsResult struct {
	Booking *domain.Booking `json:"booking"`
	// Created is false when tickets were merged into an existing booking.
	Created bool `json:"created"`
	// Replayed is true when the idempotency key matched an earlier request.
	Replayed bool `json:"-"`
}

// IdempotencyRecord is what the replay store keeps per Idempotency-Key.
// Result is nil while the first request holding the key is still running.
type IdempotencyRecord struct {
	Fingerprint string             `json:"fingerprint"`
	Result      *BookTicketsResult `json:"result,omitempty"`
}

// Pending reports whether the owning request has not finished yet.
func (r *IdempotencyRecord) Pending() bool {
	return r.Result == nil
}

// UpdateBookingInput carries the new absolute ticket count for a pair.
type UpdateBookingInput struct {
	Caller    domain.Identity
	UserID    string
	ConcertID string
	Tickets   int
}

// UpdateBookingResult is the detail view returned after an update.
type UpdateBookingResult struct {
	UpdatedTickets int
	OldCount       int
	Booking        *domain.Booking
	Concert        *domain.Concert
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	BookTickets(ctx context.Context, input BookTicketsInput) (*BookTicketsResult, error)
	ListUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error)
	UpdateBooking(ctx context.Context, input UpdateBookingInput) (*UpdateBookingResult, error)
	DeleteBooking(ctx context.Context, caller domain.Identity, bookingID string) error
}

// AuditPublisher hands booking events to the audit pipeline. Publish must not
// fail the calling request.
type AuditPublisher interface {
	Publish(event domain.BookingEvent)
}

// AuditService records a single booking event.
type AuditService interface {
	Record(ctx context.Context, event domain.BookingEvent) error
}
