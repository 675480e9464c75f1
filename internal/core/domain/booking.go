package domain

import "time"

// MaxTicketsPerPair caps the tickets one user can hold for one concert.
const MaxTicketsPerPair = 3

// Booking links one user to one concert with a ticket count. At most one
// booking exists per (user, concert) pair.
type Booking struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"user"`
	ConcertID     string    `json:"concert"`
	TicketsBooked int       `json:"ticketsBooked"`
	BookingDate   time.Time `json:"bookingDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CheckTicketCount validates a ticket count for a single request.
func CheckTicketCount(n int) error {
	if n < 1 {
		return ErrInvalidTicketCount
	}
	if n > MaxTicketsPerPair {
		return ErrTooManyTickets
	}
	return nil
}

// BookingEventKind names the change recorded in the audit trail.
type BookingEventKind string

const (
	BookingBooked    BookingEventKind = "booked"
	BookingMerged    BookingEventKind = "merged"
	BookingUpdated   BookingEventKind = "updated"
	BookingCancelled BookingEventKind = "cancelled"
)

// BookingEvent is an audit record of a change to a booking and the
// inventory it holds.
type BookingEvent struct {
	ID            string
	Kind          BookingEventKind
	BookingID     string
	UserID        string
	ConcertID     string
	Delta         int // signed change to the tickets held by the pair
	TicketsBooked int
	OccurredAt    time.Time
}
