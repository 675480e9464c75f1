package domain

import "time"

// Concert is a scheduled performance with a ticket inventory.
type Concert struct {
	ID               string    `json:"_id"`
	ConcertName      string    `json:"concertName"`
	DateTime         time.Time `json:"dateTime"`
	Venue            string    `json:"venue"`
	TicketPrice      float64   `json:"ticketPrice"`
	AvailableTickets int       `json:"availableTickets"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ConcertFields holds the five mutable fields of a concert. Updates always
// replace all of them.
type ConcertFields struct {
	ConcertName      string
	DateTime         time.Time
	Venue            string
	TicketPrice      float64
	AvailableTickets int
}

// Validate checks the invariants the persistence layer relies on.
func (f ConcertFields) Validate() error {
	switch {
	case f.ConcertName == "":
		return validationError("concert name is required")
	case f.Venue == "":
		return validationError("venue is required")
	case f.DateTime.IsZero():
		return validationError("date and time are required")
	case f.TicketPrice < 0:
		return validationError("ticket price must be a positive number")
	case f.AvailableTickets < 0:
		return validationError("available tickets must be a non-negative integer")
	}
	return nil
}
