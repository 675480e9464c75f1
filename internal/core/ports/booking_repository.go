package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// ReserveInput asks the repository to add Tickets to the (UserID, ConcertID)
// booking, creating it when absent.
type ReserveInput struct {
	UserID    string
	ConcertID string
	Tickets   int
	// Limit is the maximum cumulative tickets the pair may hold.
	Limit int
}

// ReserveResult reports the stored booking after a reservation.
type ReserveResult struct {
	Booking *domain.Booking
	Created bool
}

// AdjustResult reports a booking whose ticket count was replaced.
type AdjustResult struct {
	Booking  *domain.Booking
	Concert  *domain.Concert
	OldCount int
}

// BookingRepository defines persistence operations for bookings. Every
// method that touches a concert's inventory runs as one atomic unit: either
// both the booking and the inventory change, or neither does.
type BookingRepository interface {
	// Reserve decrements the concert inventory by Tickets and creates or merges
	// the pair's booking. Fails with domain.ErrTooManyTickets when the pair
	// would exceed Limit, domain.ErrSoldOut when inventory is short,
	// domain.ErrConcertNotFound or domain.ErrUserNotFound.
	Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error)

	// Adjust replaces the ticket count of the pair's booking with newCount and
	// moves the difference to or from the concert inventory.
	Adjust(ctx context.Context, userID, concertID string, newCount int) (*AdjustResult, error)

	// Cancel deletes the booking and restores its tickets to the concert.
	Cancel(ctx context.Context, bookingID string) (*domain.Booking, error)

	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
}

// BookingEventRepository persists the booking audit trail.
type BookingEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.BookingEvent) error
}
